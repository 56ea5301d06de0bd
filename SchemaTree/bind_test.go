package SchemaTree

import (
	"testing"

	"github.com/GrainArc/SchemaMap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNormalize(t *testing.T, raw string) *TreeNode {
	t.Helper()
	tree, err := Normalize([]byte(raw))
	require.NoError(t, err)
	return tree
}

func TestBind_ExactMatch(t *testing.T) {
	const schema = `{"type":"object","properties":{"a":{"type":"string"},"b":{"type":"number"}}}`
	tree := mustNormalize(t, schema)

	recs := []models.MappingRecord{
		{TargetNodeID: "root.properties.a", NodeName: "a", NodeType: "string", FieldLabel: "supplier_a"},
	}
	report := Bind(tree, recs)

	assert.Equal(t, 1, report.Matched)
	assert.Empty(t, report.Fallback)
	assert.Empty(t, report.Ambiguous)
	assert.Empty(t, report.Orphaned)

	a := tree.Find("root.properties.a")
	require.True(t, a.Mapped)
	assert.Equal(t, "supplier_a", a.Mapping.FieldLabel)
	assert.False(t, tree.Find("root.properties.b").Mapped)
}

func TestBind_RebindUnchangedSchemaIsClean(t *testing.T) {
	const schema = `{
		"type": "object",
		"properties": {
			"person": {"type": "object", "properties": {"name": {"type": "string"}}},
			"count": {"type": "integer"}
		}
	}`
	recs := []models.MappingRecord{
		{TargetNodeID: "root.properties.person.properties.name", NodeName: "name", NodeType: "string"},
		{TargetNodeID: "root.properties.count", NodeName: "count", NodeType: "integer"},
	}

	// 每次可视化树都整体重建，旧记录必须原样落回
	for i := 0; i < 3; i++ {
		tree := mustNormalize(t, schema)
		report := Bind(tree, recs)
		assert.Equal(t, 2, report.Matched)
		assert.Empty(t, report.Fallback)
		assert.Empty(t, report.Ambiguous)
		assert.Empty(t, report.Orphaned)
	}
}

func TestBind_FallbackAfterParentRename(t *testing.T) {
	// city原先挂在address下，schema改名为location后路径失配
	tree := mustNormalize(t, `{
		"type": "object",
		"properties": {
			"location": {"type": "object", "properties": {"city": {"type": "string"}}}
		}
	}`)
	recs := []models.MappingRecord{
		{TargetNodeID: "root.properties.address.properties.city", NodeName: "city", NodeType: "string"},
	}

	report := Bind(tree, recs)

	assert.Equal(t, 1, report.Matched)
	require.Len(t, report.Fallback, 1)
	assert.Equal(t, "root.properties.location.properties.city", report.Fallback[0].NewPath)
	assert.Empty(t, report.Ambiguous)
	assert.Empty(t, report.Orphaned)
	assert.True(t, tree.Find("root.properties.location.properties.city").Mapped)
}

func TestBind_AmbiguousWhenSiblingShares(t *testing.T) {
	// 两处都有(city,string)，不猜测，判歧义
	tree := mustNormalize(t, `{
		"type": "object",
		"properties": {
			"home": {"type": "object", "properties": {"city": {"type": "string"}}},
			"work": {"type": "object", "properties": {"city": {"type": "string"}}}
		}
	}`)
	recs := []models.MappingRecord{
		{TargetNodeID: "root.properties.address.properties.city", NodeName: "city", NodeType: "string"},
	}

	report := Bind(tree, recs)

	assert.Equal(t, 0, report.Matched)
	require.Len(t, report.Ambiguous, 1)
	assert.ElementsMatch(t, []string{
		"root.properties.home.properties.city",
		"root.properties.work.properties.city",
	}, report.Ambiguous[0].Candidates)
	assert.Empty(t, report.Orphaned)
}

func TestBind_TypeDistinguishesCandidates(t *testing.T) {
	// 同名不同type时只剩一个候选，可以回退绑定
	tree := mustNormalize(t, `{
		"type": "object",
		"properties": {
			"home": {"type": "object", "properties": {"city": {"type": "string"}}},
			"stats": {"type": "object", "properties": {"city": {"type": "integer"}}}
		}
	}`)
	recs := []models.MappingRecord{
		{TargetNodeID: "root.properties.address.properties.city", NodeName: "city", NodeType: "string"},
	}

	report := Bind(tree, recs)

	assert.Equal(t, 1, report.Matched)
	require.Len(t, report.Fallback, 1)
	assert.Equal(t, "root.properties.home.properties.city", report.Fallback[0].NewPath)
}

func TestBind_OrphanedKept(t *testing.T) {
	tree := mustNormalize(t, `{"type":"object","properties":{"a":{"type":"string"}}}`)
	recs := []models.MappingRecord{
		{TargetNodeID: "root.properties.gone", NodeName: "gone", NodeType: "string", FieldLabel: "lost"},
	}

	report := Bind(tree, recs)

	assert.Equal(t, 0, report.Matched)
	require.Len(t, report.Orphaned, 1)
	assert.Equal(t, "lost", report.Orphaned[0].FieldLabel)
}

func TestBind_DuplicateTargetIsAmbiguous(t *testing.T) {
	tree := mustNormalize(t, `{"type":"object","properties":{"a":{"type":"string"}}}`)
	recs := []models.MappingRecord{
		{TargetNodeID: "root.properties.a", NodeName: "a", NodeType: "string", FieldLabel: "first"},
		{TargetNodeID: "root.properties.a", NodeName: "a", NodeType: "string", FieldLabel: "second"},
	}

	report := Bind(tree, recs)

	assert.Equal(t, 1, report.Matched)
	require.Len(t, report.Ambiguous, 1)
	assert.Equal(t, "second", report.Ambiguous[0].Record.FieldLabel)
	assert.Equal(t, "first", tree.Find("root.properties.a").Mapping.FieldLabel)
}

func TestBind_NilTreeOrphansEverything(t *testing.T) {
	recs := []models.MappingRecord{{TargetNodeID: "root.properties.a"}}
	report := Bind(nil, recs)
	assert.Len(t, report.Orphaned, 1)
}
