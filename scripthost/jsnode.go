package scripthost

import (
	"github.com/dop251/goja"

	"gocko/html"
)

// jsNode wraps one html.Node for JS access, the Go analogue of the
// teacher's JSNode. Navigation properties are lazy accessor properties
// rather than eagerly built objects, so a deep tree doesn't recurse
// into a full JS object graph just to hand back one element.
type jsNode struct {
	node *html.Node
	e    *Engine
}

func (e *Engine) wrap(n *html.Node) *jsNode {
	if n == nil {
		return nil
	}
	return &jsNode{node: n, e: e}
}

func (n *jsNode) toObject() *goja.Object {
	if n == nil || n.node == nil {
		return nil
	}
	vm := n.e.vm
	obj := vm.NewObject()

	obj.Set("tagName", n.node.Tag)
	obj.Set("nodeName", n.node.Tag)
	obj.Set("id", n.node.ID())
	obj.Set("className", n.node.Attr("class"))

	nodeType := 1
	if n.node.Type == html.TextNode {
		nodeType = 3
	}
	obj.Set("nodeType", nodeType)

	obj.DefineAccessorProperty("textContent",
		vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(n.node.TextContent())
		}),
		vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				n.setTextContent(call.Argument(0).String())
			}
			return goja.Undefined()
		}),
		goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		val, ok := n.node.GetAttribute(call.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(val)
	})

	obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		name, val := call.Argument(0).String(), call.Argument(1).String()
		n.node.SetAttribute(name, val)
		n.e.recordMutation(DOMMutation{Kind: MutationSetAttribute, NodeRef: nodeRef(n.node), Name: name, Value: val})
		return goja.Undefined()
	})

	obj.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.ToValue(false)
		}
		_, ok := n.node.GetAttribute(call.Argument(0).String())
		return vm.ToValue(ok)
	})

	obj.DefineAccessorProperty("parentNode",
		vm.ToValue(func(call goja.FunctionCall) goja.Value { return n.parentNode() }),
		goja.Undefined(), goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("parentElement",
		vm.ToValue(func(call goja.FunctionCall) goja.Value { return n.parentNode() }),
		goja.Undefined(), goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("children",
		vm.ToValue(func(call goja.FunctionCall) goja.Value { return n.e.nodesToArray(n.node.Children()) }),
		goja.Undefined(), goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("childNodes",
		vm.ToValue(func(call goja.FunctionCall) goja.Value { return n.e.nodesToArray(n.node.ChildNodes()) }),
		goja.Undefined(), goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("firstChild",
		vm.ToValue(func(call goja.FunctionCall) goja.Value { return n.firstChild() }),
		goja.Undefined(), goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("nextSibling",
		vm.ToValue(func(call goja.FunctionCall) goja.Value { return n.siblingOf(n.node.NextSibling) }),
		goja.Undefined(), goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("previousSibling",
		vm.ToValue(func(call goja.FunctionCall) goja.Value { return n.siblingOf(n.node.PrevSibling) }),
		goja.Undefined(), goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		if child := nodeFromValue(vm, call.Argument(0)); child != nil {
			n.node.AppendChild(child)
			n.e.recordMutation(DOMMutation{Kind: MutationAppendChild, NodeRef: nodeRef(n.node), Value: nodeRef(child)})
		}
		return call.Argument(0)
	})

	obj.Set("removeChild", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		if child := nodeFromValue(vm, call.Argument(0)); child != nil {
			child.Detach()
			n.e.recordMutation(DOMMutation{Kind: MutationRemoveChild, NodeRef: nodeRef(n.node), Value: nodeRef(child)})
		}
		return call.Argument(0)
	})

	obj.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		eventType := call.Argument(0).String()
		if fn, ok := goja.AssertFunction(call.Argument(1)); ok {
			n.e.addEventListener(n.node, eventType, fn)
		}
		return goja.Undefined()
	})

	obj.Set("click", func(call goja.FunctionCall) goja.Value {
		n.e.DispatchClick(n.node)
		return goja.Undefined()
	})

	obj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		found := queryOne(n.node, call.Argument(0).String())
		if found == nil {
			return goja.Null()
		}
		return n.e.wrap(found).toObject()
	})

	obj.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.NewArray()
		}
		return n.e.nodesToArray(queryAll(n.node, call.Argument(0).String()))
	})

	obj.Set("__gockoNode", n)

	return obj
}

func (n *jsNode) setTextContent(text string) {
	for c := n.node.FirstChild; c != nil; {
		next := c.NextSibling
		c.Detach()
		c = next
	}
	n.node.AppendChild(html.NewText(text))
	n.e.recordMutation(DOMMutation{Kind: MutationSetText, NodeRef: nodeRef(n.node), Value: text})
}

func (n *jsNode) parentNode() goja.Value {
	if n.node.Parent == nil {
		return goja.Null()
	}
	return n.e.wrap(n.node.Parent).toObject()
}

func (n *jsNode) firstChild() goja.Value {
	if n.node.FirstChild == nil {
		return goja.Null()
	}
	return n.e.wrap(n.node.FirstChild).toObject()
}

func (n *jsNode) siblingOf(sib *html.Node) goja.Value {
	if sib == nil {
		return goja.Null()
	}
	return n.e.wrap(sib).toObject()
}

// nodeFromValue recovers the html.Node a jsNode wraps from a JS object
// previously produced by toObject, so appendChild/removeChild operate
// on the real tree rather than a detached JS-side copy.
func nodeFromValue(vm *goja.Runtime, v goja.Value) *html.Node {
	obj := v.ToObject(vm)
	if obj == nil {
		return nil
	}
	raw := obj.Get("__gockoNode")
	if raw == nil {
		return nil
	}
	wrapped, ok := raw.Export().(*jsNode)
	if !ok || wrapped == nil {
		return nil
	}
	return wrapped.node
}

func (e *Engine) addEventListener(node *html.Node, eventType string, fn goja.Callable) {
	if e.listeners[node] == nil {
		e.listeners[node] = make(map[string][]goja.Callable)
	}
	e.listeners[node][eventType] = append(e.listeners[node][eventType], fn)
}

func (e *Engine) dispatchEvent(node *html.Node, eventType string) {
	callbacks := e.listeners[node][eventType]
	if len(callbacks) == 0 {
		return
	}
	evt := e.vm.NewObject()
	evt.Set("type", eventType)
	evt.Set("target", e.wrap(node).toObject())
	for _, cb := range callbacks {
		if _, err := cb(goja.Undefined(), evt); err != nil {
			e.log.Sugar().Warnw("script event listener failed", "type", eventType, "err", err)
		}
	}
}
