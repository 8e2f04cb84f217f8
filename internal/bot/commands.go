package bot

import "strings"

// Command identifies an admin command extracted from a message body.
type Command int

const (
	CmdUnknown Command = iota
	CmdTakeover
	CmdResolve
	CmdList
	CmdHelp
	CmdOrder
)

// OrderAction identifies a subcommand of !order.
type OrderAction int

const (
	OrderUnknown OrderAction = iota
	OrderAdd
	OrderView
	OrderEdit
	OrderDelete
	OrderExport
)

// ParsedCommand is one parsed admin command. Target carries the JID argument
// for takeover and resolve; Order is set only for CmdOrder.
type ParsedCommand struct {
	Command Command
	Target  string
	Order   *OrderCommand
}

// OrderCommand carries the parsed !order subcommand and its arguments.
// Raw holds the unparsed remainder after the subcommand for add.
type OrderCommand struct {
	Action OrderAction
	ID     string
	Field  string
	Value  string
	Raw    string
}

// ParseCommand parses an admin message body beginning with "!". Command
// tokens are case-sensitive. Commands missing a required argument parse as
// CmdUnknown so the caller replies with usage help instead of acting on
// nothing.
func ParseCommand(body string) ParsedCommand {
	body = strings.TrimSpace(body)
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return ParsedCommand{Command: CmdUnknown}
	}

	switch fields[0] {
	case "!ambil":
		if len(fields) < 2 {
			return ParsedCommand{Command: CmdUnknown}
		}
		return ParsedCommand{Command: CmdTakeover, Target: fields[1]}
	case "!selesai":
		if len(fields) < 2 {
			return ParsedCommand{Command: CmdUnknown}
		}
		return ParsedCommand{Command: CmdResolve, Target: fields[1]}
	case "!list":
		return ParsedCommand{Command: CmdList}
	case "!help":
		return ParsedCommand{Command: CmdHelp}
	case "!order":
		return ParsedCommand{Command: CmdOrder, Order: parseOrderCommand(body)}
	default:
		return ParsedCommand{Command: CmdUnknown}
	}
}

func parseOrderCommand(body string) *OrderCommand {
	rest := strings.TrimSpace(strings.TrimPrefix(body, "!order"))
	if rest == "" {
		return &OrderCommand{Action: OrderUnknown}
	}

	sub := rest
	args := ""
	if idx := strings.IndexAny(rest, " \t\n"); idx >= 0 {
		sub = rest[:idx]
		args = strings.TrimSpace(rest[idx+1:])
	}

	switch sub {
	case "add":
		return &OrderCommand{Action: OrderAdd, Raw: args}
	case "view":
		return &OrderCommand{Action: OrderView, ID: strings.ToUpper(args)}
	case "edit":
		return parseOrderEdit(args)
	case "delete":
		if args == "" {
			return &OrderCommand{Action: OrderUnknown}
		}
		return &OrderCommand{Action: OrderDelete, ID: strings.ToUpper(args)}
	case "export":
		return &OrderCommand{Action: OrderExport}
	default:
		return &OrderCommand{Action: OrderUnknown}
	}
}

// parseOrderEdit splits "ORD-0001 field new value" into its three parts.
// The value may contain spaces.
func parseOrderEdit(args string) *OrderCommand {
	parts := strings.SplitN(args, " ", 3)
	if len(parts) < 3 {
		return &OrderCommand{Action: OrderUnknown}
	}
	return &OrderCommand{
		Action: OrderEdit,
		ID:     strings.ToUpper(strings.TrimSpace(parts[0])),
		Field:  strings.TrimSpace(parts[1]),
		Value:  strings.TrimSpace(parts[2]),
	}
}
