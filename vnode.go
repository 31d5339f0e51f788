package lookout

import (
	"strings"

	"github.com/germtb/gox"
)

func isTextNode(v gox.VNode) bool {
	s, ok := v.Type.(string)
	return ok && s == gox.TextNodeType
}

func textContent(v gox.VNode) string {
	if content, ok := v.Props["content"].(string); ok {
		return content
	}
	if text, ok := v.Props["text"].(string); ok {
		return text
	}
	return ""
}

// collectText concatenates all text below v.
func collectText(v gox.VNode) string {
	if isTextNode(v) {
		return textContent(v)
	}
	var sb strings.Builder
	for _, child := range v.Children {
		sb.WriteString(collectText(child))
	}
	return sb.String()
}

func withoutChildren(props gox.Props) gox.Props {
	if _, ok := props["children"]; !ok {
		return props
	}
	out := make(gox.Props, len(props))
	for k, v := range props {
		if k != "children" {
			out[k] = v
		}
	}
	return out
}

// expand recursively expands functional components into their rendered
// output.
func expand(v gox.VNode) gox.VNode {
	if _, ok := v.Type.(string); ok {
		if len(v.Children) == 0 {
			return v
		}
		children := make([]gox.VNode, len(v.Children))
		for i, child := range v.Children {
			children[i] = expand(child)
		}
		return gox.VNode{Type: v.Type, Props: v.Props, Children: children}
	}

	if comp, ok := v.Type.(gox.Component); ok {
		props := gox.Props{}
		for k, val := range v.Props {
			props[k] = val
		}
		props["children"] = v.Children
		return expand(comp(props))
	}

	return v
}
