package shell

import (
	"fmt"
	"io"
)

// Shells lists the shells WriteInit supports.
var Shells = []string{"bash", "zsh"}

// WriteInit writes the integration script for the named shell. It reports
// false for an unsupported shell.
func WriteInit(w io.Writer, name string) bool {
	switch name {
	case "bash":
		fmt.Fprint(w, bashInit)
	case "zsh":
		fmt.Fprint(w, zshInit)
	default:
		return false
	}
	return true
}

const bashInit = `# termdiary shell integration
__termdiary_prompt_hook() {
  eval "$(command termdiary status --env 2>/dev/null)"
}

termdiary_prompt_info() {
  command termdiary status 2>/dev/null
}

if [[ -z "$PROMPT_COMMAND" ]]; then
  PROMPT_COMMAND="__termdiary_prompt_hook"
else
  PROMPT_COMMAND="__termdiary_prompt_hook;${PROMPT_COMMAND}"
fi

eval "$(command termdiary completion bash 2>/dev/null)"
`

const zshInit = `# termdiary shell integration
__termdiary_prompt_hook() {
  eval "$(command termdiary status --env 2>/dev/null)"
}

termdiary_prompt_info() {
  command termdiary status 2>/dev/null
}

autoload -Uz add-zsh-hook
add-zsh-hook precmd __termdiary_prompt_hook

eval "$(command termdiary completion zsh 2>/dev/null)"
`
