package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint
	Name string
}

func TestRegisterDBInstrumentation(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:dbtracing?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))

	m := NewMetrics("test")
	require.NoError(t, RegisterDBInstrumentation(db, DBTracingConfig{Enabled: false}, m, zap.NewNop()))

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&widget{Name: "a"}).Error)
	var out []widget
	require.NoError(t, db.WithContext(ctx).Find(&out).Error)

	assert.Equal(t, 2, testutil.CollectAndCount(m.dbQueryDuration))
}

func TestRegisterDBInstrumentation_Noop(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:dbtracing_noop?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	assert.NoError(t, RegisterDBInstrumentation(db, DBTracingConfig{}, nil, zap.NewNop()))
}
