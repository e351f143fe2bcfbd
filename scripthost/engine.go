// Package scripthost is the script-engine collaborator (spec §5: "the
// script engine is driven between renders; if it mutates the DOM, the
// shell triggers a new render_html call"). It is not part of the
// render core's suspension-free hot path — Engine.Run executes once,
// to completion, and any DOM mutation it performs is picked up by the
// next render_html call the shell makes.
package scripthost

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"gocko/cssom"
	"gocko/html"
)

// MutationKind enumerates the DOM operations Evaluate reports back to
// the shell so it can decide whether a rerender is warranted, without
// the shell having to diff the whole tree itself.
type MutationKind string

const (
	MutationSetText      MutationKind = "set_text"
	MutationSetAttribute MutationKind = "set_attribute"
	MutationAppendChild  MutationKind = "append_child"
	MutationRemoveChild  MutationKind = "remove_child"
)

// DOMMutation describes one write Evaluate's script made to the live
// tree. NodeRef identifies the affected node by its id attribute if it
// has one, else by tag name (best-effort; the shell only uses this for
// logging/debugging, not to locate the node again).
type DOMMutation struct {
	Kind    MutationKind
	NodeRef string
	Name    string // attribute name, for MutationSetAttribute
	Value   string // new text or attribute value
}

// ScriptEngine is the out-of-scope collaborator contract spec §5
// describes: driven between renders, never mid-render, surfacing what
// it changed so the shell can decide whether to rerender.
type ScriptEngine interface {
	Evaluate(source string) ([]DOMMutation, error)
}

// Engine wraps a goja VM bound to one document's DOM tree, mirroring
// the teacher's DOMBridge/JSNode split: Engine owns the VM and exposes
// `document`, JSNode wraps one html.Node for JS access.
type Engine struct {
	vm   *goja.Runtime
	root *html.Node
	log  *zap.Logger

	listeners map[*html.Node]map[string][]goja.Callable
	mutations []DOMMutation
}

var _ ScriptEngine = (*Engine)(nil)

func New(root *html.Node, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		vm:        goja.New(),
		root:      root,
		log:       log,
		listeners: make(map[*html.Node]map[string][]goja.Callable),
	}
	e.vm.Set("document", e.documentObject())
	e.vm.Set("console", e.consoleObject())
	return e
}

// SetRoot rebinds the engine to a new document root, used when the
// shell reruns render_html and hands back a fresh DOM tree.
func (e *Engine) SetRoot(root *html.Node) {
	e.root = root
	e.vm.Set("document", e.documentObject())
}

// Run evaluates src to completion (spec §5: the script engine never
// suspends mid-render; it is driven wholly between renders).
func (e *Engine) Run(src string) (goja.Value, error) {
	return e.vm.RunString(src)
}

// Evaluate runs src and returns the DOM writes it performed, fulfilling
// the ScriptEngine contract the shell drives between renders. The
// mutation log from any prior Evaluate call is cleared first, so each
// call reports only its own script's writes.
func (e *Engine) Evaluate(source string) ([]DOMMutation, error) {
	e.mutations = nil
	if _, err := e.vm.RunString(source); err != nil {
		return nil, err
	}
	return e.mutations, nil
}

func (e *Engine) recordMutation(m DOMMutation) {
	e.mutations = append(e.mutations, m)
}

// nodeRef best-effort identifies a node for a DOMMutation: its id
// attribute if set, else its tag name, else "#text" for text nodes.
func nodeRef(n *html.Node) string {
	if n == nil {
		return ""
	}
	if id := n.ID(); id != "" {
		return "#" + id
	}
	if n.Type == html.TextNode {
		return "#text"
	}
	return n.Tag
}

// DispatchClick fires every "click" listener registered on node,
// called by the shell in response to a hit-tested pointer event.
func (e *Engine) DispatchClick(node *html.Node) {
	e.dispatchEvent(node, "click")
}

func (e *Engine) consoleObject() *goja.Object {
	obj := e.vm.NewObject()
	logger := e.log.Sugar()
	obj.Set("log", func(call goja.FunctionCall) goja.Value {
		args := make([]interface{}, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = a.String()
		}
		logger.Infow("console.log", "args", args)
		return goja.Undefined()
	})
	return obj
}

func (e *Engine) documentObject() *goja.Object {
	obj := e.vm.NewObject()

	obj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 || e.root == nil {
			return goja.Null()
		}
		id := call.Argument(0).String()
		node := e.root.FindElementByID(id)
		if node == nil {
			return goja.Null()
		}
		return e.wrap(node).toObject()
	})

	obj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return e.vm.NewArray()
		}
		class := call.Argument(0).String()
		var matches []*html.Node
		if e.root != nil {
			e.root.Walk(func(n *html.Node) {
				if n.Type == html.ElementNode && n.HasClass(class) {
					matches = append(matches, n)
				}
			})
		}
		return e.nodesToArray(matches)
	})

	obj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return e.vm.NewArray()
		}
		tag := call.Argument(0).String()
		var matches []*html.Node
		if e.root != nil {
			e.root.Walk(func(n *html.Node) {
				if n.Type == html.ElementNode && n.Tag == tag {
					matches = append(matches, n)
				}
			})
		}
		return e.nodesToArray(matches)
	})

	obj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 || e.root == nil {
			return goja.Null()
		}
		node := queryOne(e.root, call.Argument(0).String())
		if node == nil {
			return goja.Null()
		}
		return e.wrap(node).toObject()
	})

	obj.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 || e.root == nil {
			return e.vm.NewArray()
		}
		return e.nodesToArray(queryAll(e.root, call.Argument(0).String()))
	})

	obj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return e.wrap(html.NewElement(call.Argument(0).String())).toObject()
	})

	obj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return e.wrap(html.NewText(call.Argument(0).String())).toObject()
	})

	for name, tag := range map[string]string{"documentElement": "html", "body": "body", "head": "head"} {
		var node *html.Node
		if e.root != nil {
			node = e.root.FindElement(tag)
		}
		if node != nil {
			obj.Set(name, e.wrap(node).toObject())
		} else {
			obj.Set(name, goja.Null())
		}
	}

	return obj
}

func (e *Engine) nodesToArray(nodes []*html.Node) *goja.Object {
	arr := e.vm.NewArray()
	for i, n := range nodes {
		arr.Set(fmt.Sprintf("%d", i), e.wrap(n).toObject())
	}
	arr.Set("length", len(nodes))
	return arr
}

func queryOne(root *html.Node, selector string) *html.Node {
	var found *html.Node
	list := parseSelectorOrNil(selector)
	if list == nil {
		return nil
	}
	root.Walk(func(n *html.Node) {
		if found != nil || n.Type != html.ElementNode {
			return
		}
		if list.Matches(elementView(n)) {
			found = n
		}
	})
	return found
}

func queryAll(root *html.Node, selector string) []*html.Node {
	var out []*html.Node
	list := parseSelectorOrNil(selector)
	if list == nil {
		return nil
	}
	root.Walk(func(n *html.Node) {
		if n.Type == html.ElementNode && list.Matches(elementView(n)) {
			out = append(out, n)
		}
	})
	return out
}

func parseSelectorOrNil(selector string) *cssom.SelectorList {
	list := cssom.ParseSelectorList(selector)
	if list == nil || len(list.Items) == 0 {
		return nil
	}
	return list
}

func elementView(n *html.Node) *cssom.ElementView {
	return cssom.NewElementView(n)
}
