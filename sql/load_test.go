package sql

import (
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	db := initDB(t)

	t.Run("Initialize database extensions", func(t *testing.T) {
		err := Init(db.Instance)
		assert.NoError(t, err)

		var exists bool
		err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'pgcrypto');").Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "pgcrypto extension should be created")
	})

	t.Run("Initialize database extensions is idempotent", func(t *testing.T) {
		err := Init(db.Instance)
		assert.NoError(t, err)

		err = Init(db.Instance)
		assert.NoError(t, err)
	})
}

func TestLoadKnowledgeSql(t *testing.T) {
	db := initDB(t)

	t.Run("Load knowledge SQL functions", func(t *testing.T) {
		err := LoadKnowledgeSql(db.Instance, false)
		assert.NoError(t, err)

		for _, funcName := range KnowledgeFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})

	t.Run("Loading again without force is a no-op", func(t *testing.T) {
		err := LoadKnowledgeSql(db.Instance, false)
		assert.NoError(t, err)
	})

	t.Run("Loading with force reloads", func(t *testing.T) {
		err := LoadKnowledgeSql(db.Instance, true)
		assert.NoError(t, err)
	})
}

func TestLoadChatQueriesSql(t *testing.T) {
	db := initDB(t)

	t.Run("Load chat queries SQL functions", func(t *testing.T) {
		err := LoadChatQueriesSql(db.Instance, false)
		assert.NoError(t, err)

		for _, funcName := range ChatQueriesFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})
}

func TestLoadChatFeedbackSql(t *testing.T) {
	db := initDB(t)

	t.Run("Load chat feedback SQL functions", func(t *testing.T) {
		err := LoadChatFeedbackSql(db.Instance, false)
		assert.NoError(t, err)

		for _, funcName := range ChatFeedbackFunctions {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})
}

func TestLoadAllSql(t *testing.T) {
	db := initDB(t)

	t.Run("Load all SQL functions", func(t *testing.T) {
		err := LoadAllSql(db.Instance, true)
		assert.NoError(t, err)

		all := append(append(append([]string{}, KnowledgeFunctions...), ChatQueriesFunctions...), ChatFeedbackFunctions...)
		for _, funcName := range all {
			var exists bool
			err = db.Instance.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);", funcName).Scan(&exists)
			require.NoError(t, err)
			assert.True(t, exists, "Function %s should exist", funcName)
		}
	})
}
