package services

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// InsightFallback is returned whenever the model call fails; dashboard
// commentary is best effort and never blocks a page.
const InsightFallback = "Sem análises disponíveis de momento. Continue o bom trabalho!"

// InsightService produces short dashboard commentary from aggregate numbers
// via a single request/response completion call.
type InsightService struct {
	client *genai.Client
	model  string
}

// NewInsightService returns nil when no API key is configured.
func NewInsightService(ctx context.Context, apiKey, model string) *InsightService {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		log.Printf("[insight][warn] client init failed, insights disabled: %v", err)
		return nil
	}
	return &InsightService{client: client, model: model}
}

// DashboardCommentary summarizes the week in two or three sentences of
// Portuguese. Any failure degrades to InsightFallback.
func (s *InsightService) DashboardCommentary(ctx context.Context, openTasks, doneTasks, activeLeads int, balance float64) string {
	if s == nil || s.client == nil {
		return InsightFallback
	}

	prompt := fmt.Sprintf(
		"És um assistente de gestão de uma pequena empresa em Maputo. "+
			"Resumo da semana: %d tarefas abertas, %d tarefas concluídas, "+
			"%d leads activos, saldo de %.2f MZN. "+
			"Escreve um comentário motivador de 2-3 frases em português sobre o desempenho da equipa.",
		openTasks, doneTasks, activeLeads, balance)

	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		log.Printf("[insight][warn] generate failed: %v", err)
		return InsightFallback
	}
	text := result.Text()
	if text == "" {
		return InsightFallback
	}
	return text
}
