package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hagglehub/hagglehub-backend/internal/deals"
	"github.com/hagglehub/hagglehub-backend/internal/messages"
	"github.com/hagglehub/hagglehub-backend/pkg/ai"
	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

// threadContextLimit caps how many recent messages feed the coaching prompt.
const threadContextLimit = 10

type invoker interface {
	Invoke(ctx context.Context, req ai.InvokeRequest) (*ai.InvokeResult, error)
}

type dealStore interface {
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Deal, error)
	List(ctx context.Context, userID uuid.UUID, filter deals.Filter) ([]models.Deal, error)
}

type messageStore interface {
	List(ctx context.Context, userID uuid.UUID, filter messages.Filter) ([]models.Message, error)
}

type dealerStore interface {
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Dealer, error)
}

// CoachingDTO is the model's structured negotiation advice for one deal.
type CoachingDTO struct {
	Assessment     string   `json:"assessment"`
	SuggestedReply string   `json:"suggested_reply"`
	Tips           []string `json:"tips"`
}

// PortfolioDTO is the model's read on the user's whole negotiation slate.
type PortfolioDTO struct {
	Summary   string   `json:"summary"`
	NextSteps []string `json:"next_steps"`
}

// Service turns deal state into coaching prompts and proxies them to the LLM.
// The model only ever sees deal facts the user already owns.
type Service struct {
	llm      invoker
	deals    dealStore
	messages messageStore
	dealers  dealerStore
}

func NewService(llm invoker, dealRepo dealStore, messageRepo messageStore, dealerRepo dealerStore) (*Service, error) {
	if llm == nil {
		return nil, fmt.Errorf("insights: llm client is required")
	}
	if dealRepo == nil {
		return nil, fmt.Errorf("insights: deal store is required")
	}
	if messageRepo == nil {
		return nil, fmt.Errorf("insights: message store is required")
	}
	if dealerRepo == nil {
		return nil, fmt.Errorf("insights: dealer store is required")
	}
	return &Service{llm: llm, deals: dealRepo, messages: messageRepo, dealers: dealerRepo}, nil
}

// Coach produces negotiation advice for one deal, optionally steered by the
// user's question.
func (s *Service) Coach(ctx context.Context, userID, dealID uuid.UUID, question string) (*CoachingDTO, error) {
	deal, err := s.deals.FindByID(ctx, userID, dealID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load deal")
	}

	thread, err := s.messages.List(ctx, userID, messages.Filter{DealID: &deal.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load thread")
	}

	dealerName := "the dealer"
	if dealer, err := s.dealers.FindByID(ctx, userID, deal.DealerID); err == nil {
		dealerName = dealer.Name
	}

	result, err := s.llm.Invoke(ctx, ai.InvokeRequest{
		Prompt:         coachPrompt(deal, dealerName, thread, question),
		ResponseSchema: coachSchema(),
	})
	if err != nil {
		return nil, err
	}

	var dto CoachingDTO
	if err := result.Decode(&dto); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to decode coaching response")
	}
	return &dto, nil
}

// Portfolio summarizes every active negotiation and suggests next steps.
func (s *Service) Portfolio(ctx context.Context, userID uuid.UUID) (*PortfolioDTO, error) {
	rows, err := s.deals.List(ctx, userID, deals.Filter{ActiveOnly: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load deals")
	}
	if len(rows) == 0 {
		return &PortfolioDTO{Summary: "No active negotiations yet."}, nil
	}

	result, err := s.llm.Invoke(ctx, ai.InvokeRequest{
		Prompt:         portfolioPrompt(rows),
		ResponseSchema: portfolioSchema(),
	})
	if err != nil {
		return nil, err
	}

	var dto PortfolioDTO
	if err := result.Decode(&dto); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to decode portfolio response")
	}
	return &dto, nil
}

func coachPrompt(deal *models.Deal, dealerName string, thread []models.Message, question string) string {
	var b strings.Builder
	b.WriteString("You are an experienced car-buying negotiation coach. ")
	b.WriteString("Advise the buyer on their negotiation with ")
	b.WriteString(dealerName)
	b.WriteString(".\n\n")

	fmt.Fprintf(&b, "Deal status: %s\n", deal.Status)
	fmt.Fprintf(&b, "Purchase type: %s\n", deal.PurchaseType)
	if deal.AskingPrice != nil {
		fmt.Fprintf(&b, "Asking price: $%s\n", deal.AskingPrice.StringFixed(0))
	}
	if deal.CurrentOffer != nil {
		fmt.Fprintf(&b, "Current offer: $%s\n", deal.CurrentOffer.StringFixed(0))
	}
	if deal.TargetPrice != nil {
		fmt.Fprintf(&b, "Buyer's target: $%s\n", deal.TargetPrice.StringFixed(0))
	}
	if total := deal.FeesBreakdown.Total(); !total.IsZero() {
		fmt.Fprintf(&b, "Itemized fees total: $%s\n", total.StringFixed(0))
	}
	if deal.QuoteExpires != nil {
		fmt.Fprintf(&b, "Quote expires: %s\n", deal.QuoteExpires.Format("2006-01-02"))
	}

	if len(thread) > 0 {
		b.WriteString("\nRecent messages, newest first:\n")
		limit := len(thread)
		if limit > threadContextLimit {
			limit = threadContextLimit
		}
		for _, m := range thread[:limit] {
			fmt.Fprintf(&b, "[%s] %s\n", m.Direction, m.Content)
		}
	}

	if question != "" {
		fmt.Fprintf(&b, "\nThe buyer asks: %s\n", question)
	}
	b.WriteString("\nRespond with a short assessment, a message the buyer could send next, and up to three tactical tips.")
	return b.String()
}

func coachSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"assessment":      map[string]any{"type": "string"},
			"suggested_reply": map[string]any{"type": "string"},
			"tips": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 3,
			},
		},
		"required": []string{"assessment", "suggested_reply", "tips"},
	}
}

func portfolioPrompt(rows []models.Deal) string {
	var b strings.Builder
	b.WriteString("You are an experienced car-buying negotiation coach. ")
	fmt.Fprintf(&b, "The buyer is running %d active negotiations:\n\n", len(rows))
	for i := range rows {
		deal := &rows[i]
		fmt.Fprintf(&b, "- status %s, purchase type %s", deal.Status, deal.PurchaseType)
		if deal.AskingPrice != nil {
			fmt.Fprintf(&b, ", asking $%s", deal.AskingPrice.StringFixed(0))
		}
		if deal.CurrentOffer != nil {
			fmt.Fprintf(&b, ", current offer $%s", deal.CurrentOffer.StringFixed(0))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nSummarize how the slate is going and list the most valuable next steps.")
	return b.String()
}

func portfolioSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"next_steps": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"summary", "next_steps"},
	}
}
