package SchemaTree

import (
	"strings"

	"github.com/GrainArc/SchemaMap/models"
)

// FallbackMatch 精确路径失配后按(name,type)唯一命中的记录
type FallbackMatch struct {
	Record  models.MappingRecord `json:"record"`
	NewPath string               `json:"newPath"`
}

// AmbiguousRecord 候选节点不唯一，拒绝绑定交由用户处理
type AmbiguousRecord struct {
	Record     models.MappingRecord `json:"record"`
	Candidates []string             `json:"candidates"`
}

// BindReport 一次绑定的逐条异常汇总，孤儿与歧义记录只上报不删除
type BindReport struct {
	Matched   int                    `json:"matched"`
	Fallback  []FallbackMatch        `json:"fallback,omitempty"`
	Ambiguous []AmbiguousRecord      `json:"ambiguous,omitempty"`
	Orphaned  []models.MappingRecord `json:"orphaned,omitempty"`
}

// Bind 把持久化的映射记录重新挂到一棵新归一化的树上
// 树每次可视化都重建，只能按结构路径而不是对象引用找回节点：
// 先精确匹配节点ID，失败后从根广度优先按(name,type)找唯一候选，
// 多个候选不猜测直接判为歧义
func Bind(tree *TreeNode, recs []models.MappingRecord) *BindReport {
	report := &BindReport{}
	if tree == nil {
		report.Orphaned = append(report.Orphaned, recs...)
		return report
	}

	byID := make(map[string]*TreeNode)
	bfs := bfsOrder(tree)
	for _, node := range bfs {
		byID[node.ID] = node
	}

	for _, rec := range recs {
		rec := rec
		if node, ok := byID[rec.TargetNodeID]; ok {
			if node.Mapped {
				// 同一节点重复映射，后到的记录判歧义
				report.Ambiguous = append(report.Ambiguous, AmbiguousRecord{
					Record:     rec,
					Candidates: []string{node.ID},
				})
				continue
			}
			attach(node, &rec)
			report.Matched++
			continue
		}

		candidates := fallbackCandidates(bfs, rec)
		switch len(candidates) {
		case 0:
			report.Orphaned = append(report.Orphaned, rec)
		case 1:
			attach(candidates[0], &rec)
			report.Matched++
			report.Fallback = append(report.Fallback, FallbackMatch{
				Record:  rec,
				NewPath: candidates[0].ID,
			})
		default:
			paths := make([]string, 0, len(candidates))
			for _, node := range candidates {
				paths = append(paths, node.ID)
			}
			report.Ambiguous = append(report.Ambiguous, AmbiguousRecord{
				Record:     rec,
				Candidates: paths,
			})
		}
	}
	return report
}

func attach(node *TreeNode, rec *models.MappingRecord) {
	node.Mapped = true
	node.Mapping = rec
}

// fallbackCandidates 广度优先收集(name,type)相同的未占用节点
func fallbackCandidates(bfs []*TreeNode, rec models.MappingRecord) []*TreeNode {
	name := rec.NodeName
	if name == "" {
		name = lastSegment(rec.TargetNodeID)
	}
	var candidates []*TreeNode
	for _, node := range bfs {
		if node.Mapped || node.Name != name {
			continue
		}
		if rec.NodeType != "" && node.Type != rec.NodeType {
			continue
		}
		candidates = append(candidates, node)
	}
	return candidates
}

func bfsOrder(root *TreeNode) []*TreeNode {
	queue := []*TreeNode{root}
	var order []*TreeNode
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		queue = append(queue, node.Children...)
	}
	return order
}

func lastSegment(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
