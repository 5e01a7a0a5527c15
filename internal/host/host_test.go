package host_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aspectsofpower/ruleset/internal/game/combat"
	"github.com/aspectsofpower/ruleset/internal/host"
)

func TestLogNotifier_MapsSeverityToLevel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := host.NewLogNotifier(zap.New(core))

	n.Notify("resource short", host.SeverityWarning)
	n.Notify("bad input", host.SeverityError)
	n.Notify("leveled up", host.SeverityInfo)

	entries := logs.All()
	assert.Len(t, entries, 3)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, zap.InfoLevel, entries[2].Level)
}

func TestLogNotifier_SatisfiesCombatNotifier(t *testing.T) {
	core, _ := observer.New(zap.InfoLevel)
	var n combat.Notifier = host.NewLogNotifier(zap.New(core))
	assert.NotNil(t, n)
}
