package tutor

import (
	"fmt"
	"strings"
)

const explainSystemPrompt = `You are OctoLearn, a friendly tutor who explains any topic clearly to a learner at the level they ask for.`

func buildExplainUserMessage(topic, level string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Explain the topic '%s' at a %s level. ", topic, level))
	b.WriteString("Be concise, educational, and structured using Markdown for clarity. ")
	b.WriteString("Include examples if relevant.")
	return b.String()
}

const quizSystemPrompt = `You are OctoLearn, a tutor who writes fair multiple-choice questions that check whether a learner understood a topic.`

func buildQuizUserMessage(topic string, n int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Create %d multiple-choice quiz questions on '%s'.\n", n, topic))
	b.WriteString(`
Instructions:
1. Each question has exactly 4 options.
2. The answer must be copied character for character from one of the options.
3. Provide a one-sentence explanation of why the answer is correct.
4. Do not repeat questions and do not number the options.`)
	return b.String()
}
