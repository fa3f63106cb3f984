package database

import (
	"testing"

	"bookdirectstays/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSQLite_MigratesSubmissions(t *testing.T) {
	db, err := InitSQLite("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&model.Submission{}))

	sub := model.Submission{BusinessName: "Casa Azul", ContactName: "Ana", Email: "ana@example.com", Website: "https://casa.example"}
	require.NoError(t, db.Create(&sub).Error)

	var loaded model.Submission
	require.NoError(t, db.First(&loaded, sub.ID).Error)
	assert.Equal(t, model.SubmissionPending, loaded.Status)
}

func TestMySQLDSN_Charset(t *testing.T) {
	assert.Equal(t,
		"root:pw@tcp(127.0.0.1:3306)/bds?charset=utf8&parseTime=True&loc=Local",
		mysqlDSN("127.0.0.1", 3306, "root", "pw", "bds", "utf8"))
	assert.Equal(t,
		"root:pw@tcp(127.0.0.1:3306)/bds?charset=utf8mb4&parseTime=True&loc=Local",
		mysqlDSN("127.0.0.1", 3306, "root", "pw", "bds", ""))
}
