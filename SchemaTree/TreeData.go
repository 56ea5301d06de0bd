package SchemaTree

import (
	"fmt"

	"github.com/GrainArc/SchemaMap/models"
)

// Obligation 节点的必填级别
type Obligation string

const (
	ObligationRequired    Obligation = "required"
	ObligationConditional Obligation = "conditional"
	ObligationOptional    Obligation = "optional"
)

// TreeNode Schema树上的一个节点，每次归一化都整树重建
type TreeNode struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Obligation  Obligation  `json:"obligation"`
	Rules       []string    `json:"rules,omitempty"`
	Children    []*TreeNode `json:"children,omitempty"`

	// 以下两项只由Bind填充，不随树持久化
	Mapped  bool                  `json:"mapped"`
	Mapping *models.MappingRecord `json:"mapping,omitempty"`
}

// IsLeaf 无子节点即为叶子
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Walk 先序遍历整棵树
func (n *TreeNode) Walk(fn func(*TreeNode)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find 按节点ID查找
func (n *TreeNode) Find(id string) *TreeNode {
	if n.ID == id {
		return n
	}
	for _, child := range n.Children {
		if got := child.Find(id); got != nil {
			return got
		}
	}
	return nil
}

// SchemaError Schema结构非法，归一化立即终止
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error at %s: %s", e.Path, e.Reason)
}
