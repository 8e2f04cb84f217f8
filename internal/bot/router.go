// Package bot contains the message router, admin command handling, and
// the run loop tying the transport, store, and AI backend together.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"wabot/internal/config"
	"wabot/internal/database"
	"wabot/internal/gemini"
	"wabot/internal/knowledge"
	"wabot/internal/ledger"
	"wabot/internal/logger"
	"wabot/internal/ratelimit"
	"wabot/internal/whatsapp"
)

// Sender sends outbound messages. Satisfied by *whatsapp.Client.
type Sender interface {
	SendText(ctx context.Context, to, text string) error
	SendDocument(ctx context.Context, to, path, filename string) error
}

// handoffPattern matches requests to talk to a human operator.
var handoffPattern = regexp.MustCompile(`(?i)\b(admin|cs|manusia)\b`)

// Router routes each inbound message through the session state machine.
// Handle is called from a single goroutine; the router and its rate
// limiter rely on that serialization.
type Router struct {
	cfg     *config.Config
	log     *slog.Logger
	store   database.Store
	kb      *knowledge.Base
	limiter *ratelimit.Limiter
	ai      gemini.Client
	orders  *ledger.Ledger
	sender  Sender
	sched   *Scheduler
}

// NewRouter wires the router. All collaborators are required except sched,
// which may be nil when deferred cleanup is not wanted.
func NewRouter(
	cfg *config.Config,
	log *slog.Logger,
	store database.Store,
	kb *knowledge.Base,
	limiter *ratelimit.Limiter,
	ai gemini.Client,
	orders *ledger.Ledger,
	sender Sender,
	sched *Scheduler,
) *Router {
	return &Router{
		cfg:     cfg,
		log:     log.With("component", "router"),
		store:   store,
		kb:      kb,
		limiter: limiter,
		ai:      ai,
		orders:  orders,
		sender:  sender,
		sched:   sched,
	}
}

// Handle processes one inbound message. Branches are evaluated in strict
// order and the first match wins. Errors from collaborators are absorbed
// here so one sender's failure never stops the message loop.
func (r *Router) Handle(ctx context.Context, msg whatsapp.Message) {
	if msg.IsBroadcast || msg.IsGroup {
		return
	}

	r.log.Debug("Processing message", "from", msg.From, "preview", logger.Truncate(msg.Body, 80))

	isAdmin := msg.From == r.adminJID()

	if !r.allowed(msg, isAdmin) {
		r.log.Debug("Dropping message from sender outside allowlist", "from", msg.From)
		return
	}

	if !isAdmin && !msg.IsFromSelf && r.limiter.Check(msg.From) {
		r.log.Info("Rate limit hit", "from", msg.From)
		r.reply(ctx, msg.From, r.cfg.Messages.Throttle)
		return
	}

	session, err := r.store.GetSession(ctx, msg.From)
	if err != nil {
		r.log.Error("Failed to load session", "from", msg.From, "error", err)
		return
	}

	if session == nil || !session.Greeted {
		r.greet(ctx, msg.From)
		return
	}

	if (isAdmin || msg.IsFromSelf) && strings.HasPrefix(msg.Body, "!") {
		r.handleAdminCommand(ctx, msg)
		return
	}

	// A manual reply typed from the bot's own account is not customer
	// input; processing it would flip the customer's session state.
	if msg.IsFromSelf {
		r.log.Debug("Ignoring non-command message from own account", "chat", msg.From)
		return
	}

	if handoffPattern.MatchString(msg.Body) {
		r.handleHandoff(ctx, msg.From)
		return
	}

	if session.Mode == database.ModeHuman {
		r.log.Debug("Forwarding human-mode message", "from", msg.From)
		r.reply(ctx, r.adminJID(), fmt.Sprintf(r.cfg.Messages.Forward, msg.From, msg.Body))
		return
	}

	r.handleAI(ctx, msg)
}

func (r *Router) adminJID() string {
	return whatsapp.NormalizeJID(r.cfg.WhatsApp.AdminJID)
}

func (r *Router) allowed(msg whatsapp.Message, isAdmin bool) bool {
	if r.cfg.WhatsApp.AllowMode != "allowlist" || isAdmin || msg.IsFromSelf {
		return true
	}
	for _, jid := range r.cfg.WhatsApp.AllowedJIDs {
		if whatsapp.NormalizeJID(jid) == msg.From {
			return true
		}
	}
	return false
}

// greet sends the first-contact welcome listing the FAQ questions and
// marks the session greeted. The triggering message is not processed
// further.
func (r *Router) greet(ctx context.Context, jid string) {
	if _, err := r.store.EnsureSession(ctx, jid); err != nil {
		r.log.Error("Failed to create session", "from", jid, "error", err)
		return
	}
	if err := r.store.MarkGreeted(ctx, jid); err != nil {
		r.log.Error("Failed to mark session greeted", "from", jid, "error", err)
		return
	}

	r.log.Info("Greeting new contact", "from", jid)
	r.reply(ctx, jid, fmt.Sprintf(r.cfg.Messages.Welcome, r.faqList()))
}

func (r *Router) faqList() string {
	questions := r.kb.Questions()
	if len(questions) == 0 {
		return r.cfg.Messages.FAQEmpty
	}

	var sb strings.Builder
	for i, q := range questions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, q)
	}
	return sb.String()
}

func (r *Router) handleHandoff(ctx context.Context, jid string) {
	if err := r.store.SetSessionMode(ctx, jid, database.ModeHuman); err != nil {
		r.log.Error("Failed to switch session to human mode", "from", jid, "error", err)
		return
	}

	r.log.Info("Handoff requested", "from", jid)
	r.reply(ctx, jid, r.cfg.Messages.HandoffAck)
	r.reply(ctx, r.adminJID(), fmt.Sprintf(r.cfg.Messages.HandoffNotice, jid))
}

// handleAI answers in priority order: FAQ verbatim, knowledge-grounded
// generation, then the constrained fallback prompt. Both the question and
// the reply are appended to session memory on every path.
func (r *Router) handleAI(ctx context.Context, msg whatsapp.Message) {
	if answer, ok := r.kb.FindAnswer(msg.Body); ok {
		r.log.Debug("FAQ match", "from", msg.From)
		r.reply(ctx, msg.From, answer)
		r.remember(ctx, msg.From, msg.Body, answer)
		return
	}

	entries, err := r.store.GetMemory(ctx, msg.From)
	if err != nil {
		r.log.Error("Failed to load session memory", "from", msg.From, "error", err)
	}
	contextBlock := database.ContextBlock(entries)

	var prompt string
	if info, ok := r.kb.FindInfo(msg.Body); ok {
		r.log.Debug("Knowledge match", "from", msg.From)
		prompt = gemini.GroundedPrompt(info, contextBlock, msg.Body)
	} else {
		prompt = gemini.FallbackPrompt(contextBlock, msg.Body)
	}

	answer, err := r.ai.Complete(ctx, prompt)
	if err != nil {
		r.log.Error("AI completion failed", "from", msg.From, "error", err)
		r.reply(ctx, msg.From, r.cfg.Messages.AIError)
		return
	}

	r.log.Debug("AI reply", "from", msg.From, "preview", logger.Truncate(answer, 80))
	r.reply(ctx, msg.From, answer)
	r.remember(ctx, msg.From, msg.Body, answer)
}

func (r *Router) remember(ctx context.Context, jid, question, answer string) {
	if err := r.store.AppendMemory(ctx, jid, database.RoleUser, question); err != nil {
		r.log.Error("Failed to append user memory", "from", jid, "error", err)
	}
	if err := r.store.AppendMemory(ctx, jid, database.RoleBot, answer); err != nil {
		r.log.Error("Failed to append bot memory", "from", jid, "error", err)
	}
}

func (r *Router) reply(ctx context.Context, to, text string) {
	if err := r.sender.SendText(ctx, to, text); err != nil {
		r.log.Error("Failed to send message", "to", to, "error", err)
	}
}
