package methods

import (
	"path/filepath"
	"testing"

	"github.com/GrainArc/SchemaMap/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MySchema{}, &models.MappingRecord{}, &models.FieldRecord{}))
	return db
}

func TestSaveMappingUpserts(t *testing.T) {
	ms := &MappingService{db: testDB(t)}

	rec := &models.MappingRecord{
		SchemaKey:      "sk-1",
		TargetNodeID:   "root.properties.a",
		NodeName:       "a",
		NodeType:       "string",
		FieldLabel:     "first",
		MappingDetails: "as-is",
	}
	require.NoError(t, ms.SaveMapping(rec))
	assert.NotEmpty(t, rec.Timestamp)

	update := &models.MappingRecord{
		SchemaKey:    "sk-1",
		TargetNodeID: "root.properties.a",
		NodeName:     "a",
		NodeType:     "string",
		FieldLabel:   "second",
	}
	require.NoError(t, ms.SaveMapping(update))

	recs, err := ms.ListMappings("sk-1")
	require.NoError(t, err)
	require.Len(t, recs, 1, "one leaf keeps at most one mapping")
	assert.Equal(t, "second", recs[0].FieldLabel)
}

func TestClearMappingsScopedToSchema(t *testing.T) {
	ms := &MappingService{db: testDB(t)}

	require.NoError(t, ms.SaveMapping(&models.MappingRecord{SchemaKey: "sk-1", TargetNodeID: "root.properties.a"}))
	require.NoError(t, ms.SaveMapping(&models.MappingRecord{SchemaKey: "sk-2", TargetNodeID: "root.properties.a"}))

	require.NoError(t, ms.ClearMappings("sk-1"))

	gone, err := ms.ListMappings("sk-1")
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := ms.ListMappings("sk-2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestInstallMappingsReplacesAtomically(t *testing.T) {
	ms := &MappingService{db: testDB(t)}

	require.NoError(t, ms.SaveMapping(&models.MappingRecord{SchemaKey: "sk-1", TargetNodeID: "root.properties.old"}))

	incoming := []models.MappingRecord{
		{TargetNodeID: "root.properties.x", FieldLabel: "X"},
		{TargetNodeID: "root.properties.y", FieldLabel: "Y"},
	}
	require.NoError(t, ms.InstallMappings("sk-1", incoming))

	recs, err := ms.ListMappings("sk-1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "root.properties.x", recs[0].TargetNodeID)
	assert.Equal(t, "sk-1", recs[0].SchemaKey)
}

func TestReplaceFields(t *testing.T) {
	fs := &FieldService{db: testDB(t)}

	first := []models.FieldRecord{
		{FieldID: "f-1", Label: "one", SourceRow: 2},
		{FieldID: "f-2", Label: "two", SourceRow: 3},
	}
	require.NoError(t, fs.ReplaceFields(first))

	second := []models.FieldRecord{{FieldID: "f-3", Label: "three", SourceRow: 2}}
	require.NoError(t, fs.ReplaceFields(second))

	got, err := fs.ListFields()
	require.NoError(t, err)
	require.Len(t, got, 1, "re-upload replaces, never merges")
	assert.Equal(t, "three", got[0].Label)
}
