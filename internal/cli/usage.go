package cli

const usage = `Usage:
  triage analyse --log PATH [--repo PATH] [--phase NAME] [--format table|json] [--top N] [--config PATH] [--table PATH]
  triage phases --log PATH [--repo PATH] [--format table|json] [--config PATH] [--table PATH]

Options:
  --log PATH            Compiler diagnostic log to triage (required)
  --repo PATH           Repository root for reading source files (default: .)
  --phase NAME          Restrict to one phase: safe-removal|integration|investigation
  --format table|json   Output format (default: table)
  --top N               Cap the prioritized order at N entries
  --config PATH         Config file (default: discover .triage.yml/.triage.toml/triage.json)
  --table PATH          Integration reference table (YAML or JSON)
  --no-color            Disable colored output
  -h, --help            Show this help text
`

func Usage() string {
	return usage
}
