package bot_test

import (
	"testing"

	"wabot/internal/bot"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected bot.Command
		target   string
	}{
		{name: "takeover with target", body: "!ambil 628123", expected: bot.CmdTakeover, target: "628123"},
		{name: "takeover without target", body: "!ambil", expected: bot.CmdUnknown},
		{name: "resolve with target", body: "!selesai 628123@s.whatsapp.net", expected: bot.CmdResolve, target: "628123@s.whatsapp.net"},
		{name: "resolve without target", body: "!selesai", expected: bot.CmdUnknown},
		{name: "list", body: "!list", expected: bot.CmdList},
		{name: "help", body: "!help", expected: bot.CmdHelp},
		{name: "order", body: "!order view", expected: bot.CmdOrder},
		{name: "unknown command", body: "!frobnicate", expected: bot.CmdUnknown},
		{name: "uppercase is not recognized", body: "!LIST", expected: bot.CmdUnknown},
		{name: "leading whitespace", body: "  !help  ", expected: bot.CmdHelp},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := bot.ParseCommand(tc.body)
			if got.Command != tc.expected {
				t.Errorf("ParseCommand(%q).Command = %v, want %v", tc.body, got.Command, tc.expected)
			}
			if got.Target != tc.target {
				t.Errorf("ParseCommand(%q).Target = %q, want %q", tc.body, got.Target, tc.target)
			}
		})
	}
}

func TestParseOrderCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		action bot.OrderAction
		id     string
		field  string
		value  string
		raw    string
	}{
		{
			name:   "add with pipe input",
			body:   "!order add Jane|250000|Edit wedding video|Video Editing|2025-01-15",
			action: bot.OrderAdd,
			raw:    "Jane|250000|Edit wedding video|Video Editing|2025-01-15",
		},
		{name: "view all", body: "!order view", action: bot.OrderView},
		{name: "view one lowercase id", body: "!order view ord-0001", action: bot.OrderView, id: "ORD-0001"},
		{
			name:   "edit with multi word value",
			body:   "!order edit ORD-0001 status on progress",
			action: bot.OrderEdit,
			id:     "ORD-0001",
			field:  "status",
			value:  "on progress",
		},
		{name: "edit missing value", body: "!order edit ORD-0001 status", action: bot.OrderUnknown},
		{name: "delete", body: "!order delete ord-0002", action: bot.OrderDelete, id: "ORD-0002"},
		{name: "delete missing id", body: "!order delete", action: bot.OrderUnknown},
		{name: "export", body: "!order export", action: bot.OrderExport},
		{name: "bare order", body: "!order", action: bot.OrderUnknown},
		{name: "unknown subcommand", body: "!order frobnicate", action: bot.OrderUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := bot.ParseCommand(tc.body)
			if got.Command != bot.CmdOrder {
				t.Fatalf("ParseCommand(%q).Command = %v, want CmdOrder", tc.body, got.Command)
			}
			if got.Order == nil {
				t.Fatalf("ParseCommand(%q).Order is nil", tc.body)
			}
			if got.Order.Action != tc.action {
				t.Errorf("Action = %v, want %v", got.Order.Action, tc.action)
			}
			if got.Order.ID != tc.id {
				t.Errorf("ID = %q, want %q", got.Order.ID, tc.id)
			}
			if got.Order.Field != tc.field {
				t.Errorf("Field = %q, want %q", got.Order.Field, tc.field)
			}
			if got.Order.Value != tc.value {
				t.Errorf("Value = %q, want %q", got.Order.Value, tc.value)
			}
			if got.Order.Raw != tc.raw {
				t.Errorf("Raw = %q, want %q", got.Order.Raw, tc.raw)
			}
		})
	}
}
