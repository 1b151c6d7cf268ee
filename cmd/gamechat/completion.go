package main

import "fmt"

func completionMain(args []string) {
	shell := "bash"
	if len(args) > 0 && args[0] != "" {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	default:
		log.Fatalf("unsupported shell: %s (use bash or zsh)", shell)
	}
}

const bashCompletion = `
_gamechat_completions()
{
    local cur
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "widget serve send history clear status init completion --url -c" -- "$cur") )
        return 0
    fi

    case "${COMP_WORDS[1]}" in
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            ;;
        serve)
            COMPREPLY=( $(compgen -W "--config --listen --history -c" -- "$cur") )
            ;;
        history)
            COMPREPLY=( $(compgen -W "--config -n -c" -- "$cur") )
            ;;
        clear)
            COMPREPLY=( $(compgen -W "--config --yes -c" -- "$cur") )
            ;;
        status)
            COMPREPLY=( $(compgen -W "--config --debug -c" -- "$cur") )
            ;;
        init)
            COMPREPLY=( $(compgen -W "--config --force" -- "$cur") )
            ;;
        *)
            COMPREPLY=( $(compgen -W "--config --id --log-file -c" -- "$cur") )
            ;;
    esac
}
complete -F _gamechat_completions gamechat
`

const zshCompletion = `
#compdef gamechat

_gamechat() {
  local -a subcmds
  subcmds=(
    'widget:open the chat widget'
    'serve:run the chat server'
    'send:send one message'
    'history:print chat history'
    'clear:clear chat history'
    'status:show game status'
    'init:write a default config'
    'completion:print shell completion'
  )
  if (( CURRENT == 2 )); then
    _describe 'command' subcmds
    return
  fi
  case $words[2] in
    completion) _values 'shell' bash zsh ;;
    serve) _arguments '--config[config file]:file:_files' '--listen[listen address]' '--history[history file]:file:_files' '*-c[override key=value]' ;;
    history) _arguments '--config[config file]:file:_files' '-n[last n messages]' '*-c[override key=value]' ;;
    clear) _arguments '--config[config file]:file:_files' '--yes[confirm]' '*-c[override key=value]' ;;
    status) _arguments '--config[config file]:file:_files' '--debug[include diagnostics]' '*-c[override key=value]' ;;
    init) _arguments '--config[config file]:file:_files' '--force[overwrite]' ;;
    *) _arguments '--config[config file]:file:_files' '--id[widget id]' '--log-file[widget log file]:file:_files' '*-c[override key=value]' ;;
  esac
}

compdef _gamechat gamechat
`
