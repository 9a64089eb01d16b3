package api

import (
	"fmt"
	"strings"

	"github.com/diogo/browseagent/internal/models"
)

const promptTemplate = `You are an advanced AI browser agent. A user has given you a task and an optional URL for context. Your goal is to use your search capabilities to thoroughly investigate and provide a comprehensive, helpful answer.

User's request:
Task: "%s"
Context URL (if provided): "%s"

Please provide your answer based on the information you find. Be clear, concise, and well-structured.`

// BuildPrompt formats the instruction sent upstream. An empty url is replaced
// by models.URLPlaceholder.
func BuildPrompt(task, url string) string {
	return fmt.Sprintf(promptTemplate, task, contextURL(url))
}

func contextURL(url string) string {
	if strings.TrimSpace(url) == "" {
		return models.URLPlaceholder
	}
	return url
}
