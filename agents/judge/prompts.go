/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import "fmt"

// systemPrompt frames the judge's task. It is identical for every request.
const systemPrompt = "You are an intelligent chatbot designed for evaluating the correctness of generative outputs for question-answer pairs. " +
	"Your task is to compare the predicted answer with the correct answer and determine if they match meaningfully. Here's how you can accomplish the task:" +
	"------" +
	"##INSTRUCTIONS: " +
	"- Focus on the meaningful match between the predicted answer and the correct answer.\n" +
	"- Consider synonyms or paraphrases as valid matches.\n" +
	"- Evaluate the correctness of the prediction compared to the answer."

// userPromptFormat embeds the question, reference and prediction, in that order.
const userPromptFormat = "Please evaluate the following video-based question-answer pair:\n\n" +
	"Question: %s\n" +
	"Correct Answer: %s\n" +
	"Predicted Answer: %s\n\n" +
	"Provide your evaluation only as a yes/no and score where the score is an integer value between 0 and 5, with 5 indicating the highest meaningful match. " +
	"Please generate the response in the form of a Python dictionary string with keys 'pred' and 'score', where value of 'pred' is a string of 'yes' or 'no' and value of 'score' is in INTEGER, not STRING. " +
	"DO NOT PROVIDE ANY OTHER OUTPUT TEXT OR EXPLANATION. Only provide the Python dictionary string. " +
	"For example, your response should look like this: {'pred': 'yes', 'score': 4}."

func userPrompt(r *Request) string {
	return fmt.Sprintf(userPromptFormat, r.Question, r.ReferenceAnswer, r.Prediction)
}
