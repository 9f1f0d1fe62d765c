package agent

import (
	"context"
	"errors"

	"github.com/pliu/aichat/internal/llm"
	"github.com/pliu/aichat/internal/metrics"
	"github.com/pliu/aichat/internal/models"
	"github.com/pliu/aichat/internal/store"
	"github.com/rs/zerolog"
)

const (
	// HistoryWindow is how many past exchanges are replayed as context.
	HistoryWindow = 10

	SystemPrompt = "You are a helpful AI assistant. You answer questions and help with tasks.\n" +
		"You have access to the following history of our conversation. Use it to provide context-aware responses.\n"

	// FallbackReply is what users see when a turn fails for any reason.
	FallbackReply = "I encountered an error. Please check your API key or model availability."
)

type Reason string

const (
	ReasonOK         Reason = "ok"
	ReasonHistory    Reason = "history"
	ReasonInference  Reason = "inference"
	ReasonEmptyReply Reason = "empty_reply"
	ReasonPersist    Reason = "persist"
)

// Outcome is the result of one assistant turn. Text is only meaningful when OK.
type Outcome struct {
	OK     bool
	Text   string
	Reason Reason
	Err    error
}

// Reply is the text to show the user.
func (o Outcome) Reply() string {
	if o.OK {
		return o.Text
	}
	return FallbackReply
}

type Agent struct {
	store store.Store
	llm   llm.Completer
}

func New(s store.Store, c llm.Completer) *Agent {
	return &Agent{store: s, llm: c}
}

// BuildMessages lays out the system instruction, the replayed history as
// alternating user/assistant turns, and the new input last.
func BuildMessages(history []models.ChatExchange, input string) []llm.Message {
	msgs := make([]llm.Message, 0, 2*len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt})
	for _, h := range history {
		msgs = append(msgs,
			llm.Message{Role: llm.RoleUser, Content: h.Input},
			llm.Message{Role: llm.RoleAssistant, Content: h.Output},
		)
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: input})
}

func (a *Agent) Respond(ctx context.Context, userID, input string) Outcome {
	out := a.respond(ctx, userID, input)

	metrics.AssistantReplies.WithLabelValues(string(out.Reason)).Inc()
	l := zerolog.Ctx(ctx)
	if out.OK {
		l.Debug().Str("user_id", userID).Msg("assistant reply")
	} else {
		l.Error().Err(out.Err).Str("user_id", userID).Str("reason", string(out.Reason)).Msg("assistant turn failed")
	}
	return out
}

func (a *Agent) respond(ctx context.Context, userID, input string) Outcome {
	history, err := a.store.RecentExchanges(ctx, userID, HistoryWindow)
	if err != nil {
		return Outcome{Reason: ReasonHistory, Err: err}
	}

	answer, err := a.llm.Complete(ctx, BuildMessages(history, input))
	if errors.Is(err, llm.ErrEmptyReply) {
		return Outcome{Reason: ReasonEmptyReply, Err: err}
	}
	if err != nil {
		return Outcome{Reason: ReasonInference, Err: err}
	}

	ex := &models.ChatExchange{UserID: userID, Input: input, Output: answer}
	if err := a.store.SaveExchange(ctx, ex); err != nil {
		return Outcome{Reason: ReasonPersist, Err: err}
	}
	return Outcome{OK: true, Text: answer, Reason: ReasonOK}
}
