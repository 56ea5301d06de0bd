package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsHoldWithoutConfigFile(t *testing.T) {
	// 测试目录下不存在config.xml，缺省值必须已生效，
	// 否则InitDB会拿着空路径去建库
	if _, err := os.Stat("config.xml"); err == nil {
		t.Skip("config.xml present, defaults are overridden")
	}

	require.NotEmpty(t, Download)
	require.NotEmpty(t, Dbname)
	assert.Equal(t, ".", Download)
	assert.Equal(t, "schemamap.db", Dbname)
}
