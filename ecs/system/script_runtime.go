package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/worldscene/prefabs"
)

// buttonScriptRuntime runs a button script. The script defines
// onClick(count) returning the new count and style(count) returning a hex
// colour for the cap.
type buttonScriptRuntime struct {
	scriptPath string
	compiled   *tengo.Compiled
}

const buttonDispatchScript = `
__result := undefined
if __phase == "click" {
	__result = onClick(__count)
} else if __phase == "style" {
	__result = style(__count)
}
`

func newButtonScriptRuntime(path string) (*buttonScriptRuntime, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty script path")
	}

	scriptBytes, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, err
	}

	src := string(scriptBytes) + "\n" + buttonDispatchScript
	script := tengo.NewScript([]byte(src))
	_ = script.Add("__phase", "")
	_ = script.Add("__count", 0)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}

	return &buttonScriptRuntime{scriptPath: path, compiled: compiled}, nil
}

func (rt *buttonScriptRuntime) run(phase string, count int) (tengo.Object, error) {
	if rt == nil || rt.compiled == nil {
		return nil, fmt.Errorf("nil script runtime")
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return nil, err
	}
	if err := rt.compiled.Set("__count", count); err != nil {
		return nil, err
	}
	if err := rt.compiled.Run(); err != nil {
		return nil, err
	}
	return rt.compiled.Get("__result").Object(), nil
}

// Click returns the count after one click.
func (rt *buttonScriptRuntime) Click(count int) (int, error) {
	obj, err := rt.run("click", count)
	if err != nil {
		return count, err
	}
	n, ok := tengo.ToInt(obj)
	if !ok {
		return count, fmt.Errorf("%s: onClick returned %s, want int", rt.scriptPath, obj.TypeName())
	}
	return n, nil
}

// Style returns the cap colour for count.
func (rt *buttonScriptRuntime) Style(count int) (string, error) {
	obj, err := rt.run("style", count)
	if err != nil {
		return "", err
	}
	s := objectAsString(obj)
	if s == "" {
		return "", fmt.Errorf("%s: style returned %s, want string", rt.scriptPath, obj.TypeName())
	}
	return s, nil
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Undefined:
		return ""
	default:
		return strings.Trim(v.String(), "\"")
	}
}
