package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"wabot/internal/database"
	"wabot/internal/ledger"
	"wabot/internal/whatsapp"
)

// maxChunkChars bounds a single outbound text message when chunking long
// order listings.
const maxChunkChars = 4000

// handleAdminCommand dispatches a "!"-prefixed message from the admin
// identity or the bot's own account. Replies go to the chat the command
// arrived on.
func (r *Router) handleAdminCommand(ctx context.Context, msg whatsapp.Message) {
	cmd := ParseCommand(msg.Body)
	r.log.Info("Admin command", "from", msg.From, "command", strings.Fields(msg.Body)[0])

	switch cmd.Command {
	case CmdTakeover:
		r.takeover(ctx, msg.From, cmd.Target)
	case CmdResolve:
		r.resolve(ctx, msg.From, cmd.Target)
	case CmdList:
		r.listHumanSessions(ctx, msg.From)
	case CmdHelp:
		r.reply(ctx, msg.From, r.cfg.Messages.Help)
	case CmdOrder:
		r.handleOrderCommand(ctx, msg.From, cmd.Order)
	default:
		r.reply(ctx, msg.From, r.cfg.Messages.UnknownCmd)
	}
}

func (r *Router) takeover(ctx context.Context, replyTo, target string) {
	jid := whatsapp.NormalizeJID(target)

	session, err := r.store.GetSession(ctx, jid)
	if err != nil {
		r.log.Error("Failed to load target session", "target", jid, "error", err)
		return
	}
	if session == nil {
		r.reply(ctx, replyTo, fmt.Sprintf(r.cfg.Messages.SessionMissing, jid))
		return
	}

	if err := r.store.SetSessionMode(ctx, jid, database.ModeHuman); err != nil {
		r.log.Error("Failed to switch session to human mode", "target", jid, "error", err)
		return
	}

	r.reply(ctx, replyTo, fmt.Sprintf(r.cfg.Messages.TakeoverReply, jid))
	r.reply(ctx, jid, r.cfg.Messages.AdminJoined)
}

func (r *Router) resolve(ctx context.Context, replyTo, target string) {
	jid := whatsapp.NormalizeJID(target)

	session, err := r.store.GetSession(ctx, jid)
	if err != nil {
		r.log.Error("Failed to load target session", "target", jid, "error", err)
		return
	}
	if session == nil {
		r.reply(ctx, replyTo, fmt.Sprintf(r.cfg.Messages.SessionMissing, jid))
		return
	}

	if err := r.store.SetSessionMode(ctx, jid, database.ModeAI); err != nil {
		r.log.Error("Failed to switch session to AI mode", "target", jid, "error", err)
		return
	}

	r.reply(ctx, replyTo, fmt.Sprintf(r.cfg.Messages.ResolveReply, jid))
	r.reply(ctx, jid, r.cfg.Messages.AIReturned)
}

func (r *Router) listHumanSessions(ctx context.Context, replyTo string) {
	sessions, err := r.store.ListSessionsByMode(ctx, database.ModeHuman)
	if err != nil {
		r.log.Error("Failed to list sessions", "error", err)
		return
	}

	if len(sessions) == 0 {
		r.reply(ctx, replyTo, r.cfg.Messages.ListEmpty)
		return
	}

	var sb strings.Builder
	sb.WriteString(r.cfg.Messages.ListHeader)
	for i, s := range sessions {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, s.JID)
	}
	r.reply(ctx, replyTo, sb.String())
}

func (r *Router) handleOrderCommand(ctx context.Context, replyTo string, cmd *OrderCommand) {
	switch cmd.Action {
	case OrderAdd:
		r.orderAdd(ctx, replyTo, cmd.Raw)
	case OrderView:
		r.orderView(ctx, replyTo, cmd.ID)
	case OrderEdit:
		r.orderEdit(ctx, replyTo, cmd)
	case OrderDelete:
		r.orderDelete(ctx, replyTo, cmd.ID)
	case OrderExport:
		r.orderExport(ctx, replyTo)
	default:
		r.reply(ctx, replyTo, r.cfg.Messages.OrderUsage)
	}
}

func (r *Router) orderAdd(ctx context.Context, replyTo, raw string) {
	in := ledger.ParseInput(raw)
	if in == nil {
		r.reply(ctx, replyTo, r.cfg.Messages.OrderAddUsage)
		return
	}

	order, err := r.orders.Create(ctx, in)
	if err != nil {
		r.replyLedgerError(ctx, replyTo, err)
		return
	}

	r.reply(ctx, replyTo, r.cfg.Messages.OrderSaved+"\n\n"+formatOrder(order))
}

func (r *Router) orderView(ctx context.Context, replyTo, id string) {
	if id != "" {
		order, err := r.orders.Get(ctx, id)
		if err != nil {
			r.replyLedgerError(ctx, replyTo, err)
			return
		}
		r.reply(ctx, replyTo, formatOrder(order))
		return
	}

	orders, err := r.orders.All(ctx)
	if err != nil {
		r.log.Error("Failed to list orders", "error", err)
		return
	}
	if len(orders) == 0 {
		r.reply(ctx, replyTo, r.cfg.Messages.OrdersEmpty)
		return
	}

	blocks := make([]string, 0, len(orders))
	for i := range orders {
		blocks = append(blocks, formatOrder(&orders[i]))
	}
	for _, chunk := range chunkBlocks(blocks, maxChunkChars) {
		r.reply(ctx, replyTo, chunk)
	}
}

func (r *Router) orderEdit(ctx context.Context, replyTo string, cmd *OrderCommand) {
	order, err := r.orders.Edit(ctx, cmd.ID, cmd.Field, cmd.Value)
	if err != nil {
		r.replyLedgerError(ctx, replyTo, err)
		return
	}
	r.reply(ctx, replyTo, r.cfg.Messages.OrderUpdated+"\n\n"+formatOrder(order))
}

func (r *Router) orderDelete(ctx context.Context, replyTo, id string) {
	if err := r.orders.Delete(ctx, id); err != nil {
		r.replyLedgerError(ctx, replyTo, err)
		return
	}
	r.reply(ctx, replyTo, fmt.Sprintf(r.cfg.Messages.OrderDeleted, id))
}

// orderExport builds the spreadsheet, sends it to the admin chat, and
// schedules best-effort deletion of the file. If transmission fails the
// reply degrades to reporting the file's location on disk.
func (r *Router) orderExport(ctx context.Context, replyTo string) {
	result, err := r.orders.Export(ctx, r.cfg.Export.Dir)
	if err != nil {
		r.log.Error("Export failed", "error", err)
		r.reply(ctx, replyTo, r.cfg.Messages.ExportFailed)
		return
	}

	if err := r.sender.SendDocument(ctx, replyTo, result.Path, result.Filename); err != nil {
		r.log.Error("Failed to send export document", "path", result.Path, "error", err)
		r.reply(ctx, replyTo, fmt.Sprintf(r.cfg.Messages.ExportFallback, result.Path))
		return
	}

	r.scheduleExportCleanup(result.Path)
}

func (r *Router) scheduleExportCleanup(path string) {
	if r.sched == nil {
		return
	}

	log := r.log
	err := r.sched.ScheduleOnce("export-cleanup", r.cfg.Export.CleanupDelay, func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to remove export file", "path", path, "error", err)
		}
	})
	if err != nil {
		r.log.Warn("Failed to schedule export cleanup", "path", path, "error", err)
	}
}

func (r *Router) replyLedgerError(ctx context.Context, replyTo string, err error) {
	if errors.Is(err, ledger.ErrValidation) || errors.Is(err, ledger.ErrNotFound) {
		r.reply(ctx, replyTo, "⚠️ "+err.Error())
		return
	}
	r.log.Error("Order operation failed", "error", err)
	r.reply(ctx, replyTo, r.cfg.Messages.OrderError)
}

func formatOrder(o *database.Order) string {
	deadline := "-"
	if o.Deadline.Valid {
		deadline = o.Deadline.Time.Format("2006-01-02")
	}

	return fmt.Sprintf(
		"🧾 *%s*\nNama: %s\nHarga: %d\nDetail: %s\nJenis: %s\nStatus: %s\nDibuat: %s\nDeadline: %s",
		o.OrderID,
		o.OrdererName,
		o.Price,
		o.Details,
		o.Work,
		o.Status,
		o.CreatedAt.Format("2006-01-02 15:04"),
		deadline,
	)
}

// chunkBlocks joins blocks with blank lines into messages no longer than
// limit characters. A single oversized block is sent on its own.
func chunkBlocks(blocks []string, limit int) []string {
	var chunks []string
	var sb strings.Builder

	for _, block := range blocks {
		extra := len(block)
		if sb.Len() > 0 {
			extra += 2
		}
		if sb.Len() > 0 && sb.Len()+extra > limit {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(block)
	}
	if sb.Len() > 0 {
		chunks = append(chunks, sb.String())
	}
	return chunks
}
