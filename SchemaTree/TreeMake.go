package SchemaTree

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Normalize 将JSON Schema文档归一化为树
// 树每次都整体重建，节点ID为从root出发的点连路径
func Normalize(raw []byte) (*TreeNode, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &SchemaError{Path: "root", Reason: "empty schema document"}
	}
	frag, err := parseFragment(trimmed)
	if err != nil {
		return nil, asSchemaError("root", err)
	}
	n := &normalizer{root: frag}
	return n.buildNode("root", "root", trimmed, ObligationOptional, map[string]bool{})
}

type normalizer struct {
	root *fragment
}

func (n *normalizer) buildNode(name, id string, raw json.RawMessage, obl Obligation, active map[string]bool) (*TreeNode, error) {
	frag, active, err := n.resolveRaw(raw, id, active)
	if err != nil {
		return nil, err
	}

	node := &TreeNode{
		ID:          id,
		Name:        name,
		Description: frag.str("description"),
		Obligation:  obl,
		Rules:       extractRules(frag),
	}
	typ := frag.typeName()

	// 自身properties在前，条件分支里声明的属性随后，同名以先出现的为准
	props, err := frag.orderedProps()
	if err != nil {
		return nil, asSchemaError(id, err)
	}
	seen := make(map[string]bool, len(props))
	for _, p := range props {
		seen[p.name] = true
	}
	for _, p := range n.collectBranchProps(frag) {
		if !seen[p.name] {
			seen[p.name] = true
			props = append(props, p)
		}
	}

	if len(props) > 0 {
		condSet := n.collectConditionalRequired(frag)
		reqSet := make(map[string]bool)
		for _, name := range frag.strList("required") {
			reqSet[name] = true
		}
		for _, p := range props {
			childObl := ObligationOptional
			if condSet[p.name] {
				childObl = ObligationConditional
			}
			// 无条件required优先于条件分支
			if reqSet[p.name] {
				childObl = ObligationRequired
			}
			child, err := n.buildNode(p.name, id+".properties."+p.name, p.raw, childObl, active)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		if typ == "" {
			typ = "object"
		}
	}

	// 数组元素共用一个items节点，不按下标展开
	if itemsRaw, ok := frag.get("items"); ok && bytes.HasPrefix(bytes.TrimSpace(itemsRaw), []byte("{")) {
		child, err := n.buildNode("items", id+".items", itemsRaw, ObligationOptional, active)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
		if typ == "" {
			typ = "array"
		}
	}

	node.Type = typ
	return node, nil
}

// resolveRaw 解析片段并展开本地$ref，active记录当前路径上展开中的引用
func (n *normalizer) resolveRaw(raw json.RawMessage, path string, active map[string]bool) (*fragment, map[string]bool, error) {
	frag, err := parseFragment(raw)
	if err != nil {
		return nil, nil, asSchemaError(path, err)
	}
	for {
		ref := frag.str("$ref")
		if ref == "" {
			return frag, active, nil
		}
		if active[ref] {
			return nil, nil, &SchemaError{Path: path, Reason: "cyclic $ref " + ref}
		}
		next := make(map[string]bool, len(active)+1)
		for k := range active {
			next[k] = true
		}
		next[ref] = true
		active = next

		target, err := n.lookupRef(ref, path)
		if err != nil {
			return nil, nil, err
		}
		frag = target
	}
}

// lookupRef 只支持文档内引用 #/definitions/... 和 #/$defs/...
func (n *normalizer) lookupRef(ref, path string) (*fragment, error) {
	if !strings.HasPrefix(ref, "#/") {
		return nil, &SchemaError{Path: path, Reason: "unsupported $ref " + ref}
	}
	cur := n.root
	segments := strings.Split(strings.TrimPrefix(ref, "#/"), "/")
	for i, seg := range segments {
		raw, ok := cur.get(seg)
		if !ok {
			return nil, &SchemaError{Path: path, Reason: "unresolved $ref " + ref}
		}
		if i == len(segments)-1 {
			frag, err := parseFragment(raw)
			if err != nil {
				return nil, asSchemaError(path, err)
			}
			return frag, nil
		}
		next, err := parseFragment(raw)
		if err != nil {
			return nil, asSchemaError(path, err)
		}
		cur = next
	}
	return nil, &SchemaError{Path: path, Reason: "unresolved $ref " + ref}
}

// 条件组合关键字，这些分支里的required只算conditional
var branchKeywords = []string{"if", "then", "else"}
var branchListKeywords = []string{"allOf", "anyOf", "oneOf"}

// collectConditionalRequired 收集条件分支内出现的required属性名
func (n *normalizer) collectConditionalRequired(frag *fragment) map[string]bool {
	set := make(map[string]bool)
	n.walkBranches(frag, func(branch *fragment) {
		for _, name := range branch.strList("required") {
			set[name] = true
		}
	})
	return set
}

// collectBranchProps 收集只声明在条件分支里的属性，保持分支顺序
func (n *normalizer) collectBranchProps(frag *fragment) []propEntry {
	var entries []propEntry
	n.walkBranches(frag, func(branch *fragment) {
		props, err := branch.orderedProps()
		if err != nil {
			return
		}
		entries = append(entries, props...)
	})
	return entries
}

// walkBranches 深度优先访问全部条件分支片段，引用循环时截断
func (n *normalizer) walkBranches(frag *fragment, fn func(*fragment)) {
	seen := make(map[string]bool)
	resolve := func(raw json.RawMessage) *fragment {
		f, err := parseFragment(raw)
		if err != nil {
			return nil
		}
		for {
			ref := f.str("$ref")
			if ref == "" {
				return f
			}
			if seen[ref] {
				return nil
			}
			seen[ref] = true
			target, err := n.lookupRef(ref, "")
			if err != nil {
				return nil
			}
			f = target
		}
	}

	var visit func(f *fragment, top bool)
	visit = func(f *fragment, top bool) {
		if !top {
			fn(f)
		}
		for _, key := range branchKeywords {
			raw, ok := f.get(key)
			if !ok {
				continue
			}
			if sub := resolve(raw); sub != nil {
				visit(sub, false)
			}
		}
		for _, key := range branchListKeywords {
			for _, raw := range f.rawList(key) {
				if sub := resolve(raw); sub != nil {
					visit(sub, false)
				}
			}
		}
	}
	visit(frag, true)
}

// 识别的校验关键字，x-前缀视为自定义校验器
var ruleKeywords = map[string]bool{
	"pattern":          true,
	"format":           true,
	"enum":             true,
	"const":            true,
	"minimum":          true,
	"maximum":          true,
	"exclusiveMinimum": true,
	"exclusiveMaximum": true,
	"multipleOf":       true,
	"minLength":        true,
	"maxLength":        true,
	"minItems":         true,
	"maxItems":         true,
	"uniqueItems":      true,
}

// extractRules 按声明顺序抽取校验规则的字面文本，不识别的关键字跳过
func extractRules(frag *fragment) []string {
	var rules []string
	for _, key := range frag.keys {
		if !ruleKeywords[key] && !strings.HasPrefix(key, "x-") {
			continue
		}
		rules = append(rules, key+": "+ruleText(frag.values[key]))
	}
	return rules
}

func ruleText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func asSchemaError(path string, err error) error {
	if se, ok := err.(*SchemaError); ok {
		if se.Path == "" {
			se.Path = path
		}
		return se
	}
	return &SchemaError{Path: path, Reason: err.Error()}
}
