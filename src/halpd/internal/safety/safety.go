// Package safety classifies shell commands by risk tier. Classification is
// a pure function of the command text: no I/O, no state, same input always
// yields the same result.
package safety

import (
	"fmt"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Tier is the risk classification of a suggested command.
type Tier string

const (
	// TierSafe marks commands without notable side effects.
	TierSafe Tier = "safe"
	// TierCaution marks commands with side effects but bounded blast radius.
	TierCaution Tier = "caution"
	// TierDangerous marks destructive commands.
	TierDangerous Tier = "dangerous"
)

// Classification is the result of classifying one command.
type Classification struct {
	Tier   Tier   `json:"tier"`
	Reason string `json:"reason"`
}

// commandFacts holds what the rule table matches against: the lowercased
// raw text plus best-effort argv lists, pipe pairs and redirect targets
// recovered from the bash AST. When the command does not parse, argv lists
// fall back to naive tokenization and the raw-text rules still apply.
type commandFacts struct {
	raw       string
	commands  [][]string
	pipes     []pipePair
	redirects []string
}

type pipePair struct {
	from string
	to   string
}

// rule is one entry of the classification table.
type rule struct {
	name  string
	tier  Tier
	match func(f *commandFacts) string
}

var (
	reForkBomb     = regexp.MustCompile(`:\(\)\s*\{.*\}\s*;?\s*:|:\|:&`)
	reRmForceRoot  = regexp.MustCompile(`rm\s+-[a-z]*(rf|fr)[a-z]*\s*(/|\*)`)
	reDdDevice     = regexp.MustCompile(`dd\s+.*of=/dev/`)
	reRedirDevice  = regexp.MustCompile(`>\s*/dev/sd[a-z]`)
	reFetchToShell = regexp.MustCompile(`(curl|wget)[^|;&]*\|\s*(sudo\s+)?(ba|z|da)?sh`)
	reGitResetHard = regexp.MustCompile(`git\s+reset\s+--hard`)
)

var systemPathPrefixes = []string{"/etc", "/usr", "/boot", "/bin", "/sbin", "/var", "/dev", "/lib"}

// rules is evaluated top to bottom; the first match wins. The order is part
// of the package contract:
//
//	 1. fork bomb
//	 2. recursive forced delete of a root-level or wildcard path
//	 3. dd writing to a device
//	 4. redirect into a block device
//	 5. filesystem/partition tools (mkfs, fdisk, format)
//	 6. network fetch piped into a shell
//	 7. permission/ownership change on a system path
//	 8. superuser invocation (sudo, su)
//	 9. destructive first words (rm, rmdir, dd)
//	10. package installs
//	11. service lifecycle changes
//	12. file moves and copies
//	13. permission/ownership changes elsewhere
//	14. network downloaders
//	15. git reset --hard
//	16. process kills
//
// Anything unmatched is safe.
var rules = []rule{
	{
		name: "fork-bomb",
		tier: TierDangerous,
		match: func(f *commandFacts) string {
			if reForkBomb.MatchString(f.raw) {
				return "Fork bomb pattern"
			}
			return ""
		},
	},
	{
		name: "rm-force-root",
		tier: TierDangerous,
		match: func(f *commandFacts) string {
			if reRmForceRoot.MatchString(f.raw) {
				return "Recursive forced delete of a root-level path"
			}
			return ""
		},
	},
	{
		name: "dd-device-write",
		tier: TierDangerous,
		match: func(f *commandFacts) string {
			if reDdDevice.MatchString(f.raw) {
				return "Writes directly to a block device"
			}
			return ""
		},
	},
	{
		name: "redirect-device",
		tier: TierDangerous,
		match: func(f *commandFacts) string {
			if reRedirDevice.MatchString(f.raw) {
				return "Redirect targets a block device"
			}
			for _, target := range f.redirects {
				if strings.HasPrefix(target, "/dev/sd") {
					return "Redirect targets a block device"
				}
			}
			return ""
		},
	},
	{
		name: "filesystem-tools",
		tier: TierDangerous,
		match: func(f *commandFacts) string {
			return matchAnyCommand(f, func(name string) string {
				if name == "mkfs" || strings.HasPrefix(name, "mkfs.") || name == "fdisk" || name == "format" {
					return fmt.Sprintf("%q can destroy a filesystem or partition table", name)
				}
				return ""
			})
		},
	},
	{
		name: "fetch-to-shell",
		tier: TierDangerous,
		match: func(f *commandFacts) string {
			if reFetchToShell.MatchString(f.raw) {
				return "Pipes a network fetch into a shell"
			}
			for _, p := range f.pipes {
				if (p.from == "curl" || p.from == "wget") && isShell(p.to) {
					return "Pipes a network fetch into a shell"
				}
			}
			return ""
		},
	},
	{
		name: "permissions-system-path",
		tier: TierDangerous,
		match: func(f *commandFacts) string {
			for _, argv := range f.commands {
				if len(argv) == 0 || (argv[0] != "chmod" && argv[0] != "chown") {
					continue
				}
				for _, arg := range argv[1:] {
					if arg == "/" || hasSystemPathPrefix(arg) {
						return fmt.Sprintf("Changes permissions on system path %q", arg)
					}
				}
			}
			return ""
		},
	},
	{
		name: "superuser",
		tier: TierDangerous,
		match: func(f *commandFacts) string {
			return matchAnyCommand(f, func(name string) string {
				if name == "sudo" || name == "su" {
					return "Runs with superuser privileges"
				}
				return ""
			})
		},
	},
	{
		name: "destructive-word",
		tier: TierDangerous,
		match: func(f *commandFacts) string {
			return matchAnyCommand(f, func(name string) string {
				switch name {
				case "rm", "rmdir", "dd":
					return fmt.Sprintf("%q can cause irreversible data loss", name)
				}
				return ""
			})
		},
	},
	{
		name: "package-install",
		tier: TierCaution,
		match: func(f *commandFacts) string {
			for _, argv := range f.commands {
				if len(argv) == 0 {
					continue
				}
				switch argv[0] {
				case "apt", "apt-get", "yum", "dnf", "pacman", "brew":
					return "Package management changes installed software"
				case "pip", "pip3", "npm", "gem", "cargo", "go":
					if len(argv) > 1 && (argv[1] == "install" || argv[1] == "uninstall") {
						return "Package management changes installed software"
					}
				}
			}
			return ""
		},
	},
	{
		name: "service-lifecycle",
		tier: TierCaution,
		match: func(f *commandFacts) string {
			return matchAnyCommand(f, func(name string) string {
				if name == "systemctl" || name == "service" {
					return "Changes service state"
				}
				return ""
			})
		},
	},
	{
		name: "file-move",
		tier: TierCaution,
		match: func(f *commandFacts) string {
			return matchAnyCommand(f, func(name string) string {
				if name == "mv" || name == "cp" {
					return "Moves or copies files"
				}
				return ""
			})
		},
	},
	{
		name: "permissions",
		tier: TierCaution,
		match: func(f *commandFacts) string {
			return matchAnyCommand(f, func(name string) string {
				if name == "chmod" || name == "chown" {
					return "Changes file permissions or ownership"
				}
				return ""
			})
		},
	},
	{
		name: "network-download",
		tier: TierCaution,
		match: func(f *commandFacts) string {
			return matchAnyCommand(f, func(name string) string {
				if name == "curl" || name == "wget" {
					return "Downloads content from the network"
				}
				return ""
			})
		},
	},
	{
		name: "git-reset-hard",
		tier: TierCaution,
		match: func(f *commandFacts) string {
			if reGitResetHard.MatchString(f.raw) {
				return "Discards uncommitted changes"
			}
			return ""
		},
	},
	{
		name: "process-kill",
		tier: TierCaution,
		match: func(f *commandFacts) string {
			return matchAnyCommand(f, func(name string) string {
				if name == "kill" || name == "pkill" || name == "killall" {
					return "Terminates processes"
				}
				return ""
			})
		},
	},
}

// Classify maps command text to a risk tier and a human-readable reason.
func Classify(command string) Classification {
	facts := extractFacts(strings.ToLower(strings.TrimSpace(command)))
	for _, r := range rules {
		if reason := r.match(facts); reason != "" {
			return Classification{Tier: r.tier, Reason: reason}
		}
	}
	return Classification{Tier: TierSafe, Reason: "Command appears safe"}
}

func matchAnyCommand(f *commandFacts, match func(name string) string) string {
	for _, argv := range f.commands {
		if len(argv) == 0 {
			continue
		}
		if reason := match(argv[0]); reason != "" {
			return reason
		}
	}
	return ""
}

func hasSystemPathPrefix(arg string) bool {
	for _, prefix := range systemPathPrefixes {
		if arg == prefix || strings.HasPrefix(arg, prefix+"/") {
			return true
		}
	}
	return false
}

func isShell(name string) bool {
	switch name {
	case "sh", "bash", "zsh", "dash":
		return true
	}
	return false
}

// extractFacts parses the command as bash and collects argv lists, pipe
// pairs and redirect targets. Sudo-wrapped pipeline ends resolve to the
// wrapped command so `curl … | sudo bash` still reads as a fetch-to-shell.
func extractFacts(raw string) *commandFacts {
	facts := &commandFacts{raw: raw}

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	prog, err := parser.Parse(strings.NewReader(raw), "")
	if err != nil {
		// Unparseable input still gets tokenized so first-word rules hold.
		for _, segment := range regexp.MustCompile(`[|;&]+`).Split(raw, -1) {
			if argv := strings.Fields(segment); len(argv) > 0 {
				facts.commands = append(facts.commands, argv)
			}
		}
		return facts
	}

	syntax.Walk(prog, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.CallExpr:
			argv := make([]string, 0, len(n.Args))
			for _, w := range n.Args {
				argv = append(argv, wordText(w))
			}
			if len(argv) > 0 {
				facts.commands = append(facts.commands, argv)
			}
		case *syntax.BinaryCmd:
			if n.Op == syntax.Pipe || n.Op == syntax.PipeAll {
				facts.pipes = append(facts.pipes, pipePair{
					from: commandName(n.X),
					to:   commandName(n.Y),
				})
			}
		case *syntax.Redirect:
			if n.Op == syntax.RdrOut || n.Op == syntax.AppOut || n.Op == syntax.RdrAll {
				facts.redirects = append(facts.redirects, wordText(n.Word))
			}
		}
		return true
	})
	return facts
}

// wordText flattens the literal parts of a word. Expansions contribute
// nothing; matching stays best-effort on what is statically known.
func wordText(w *syntax.Word) string {
	if w == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				if lit, ok := inner.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
				}
			}
		}
	}
	return sb.String()
}

// commandName returns the argv[0] of the first call under node, skipping a
// sudo prefix.
func commandName(node syntax.Node) string {
	var name string
	syntax.Walk(node, func(n syntax.Node) bool {
		if name != "" {
			return false
		}
		if call, ok := n.(*syntax.CallExpr); ok && len(call.Args) > 0 {
			name = wordText(call.Args[0])
			if name == "sudo" && len(call.Args) > 1 {
				name = wordText(call.Args[1])
			}
			return false
		}
		return true
	})
	return name
}
