package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/AkmalxonWeBd/education-platform/core"
	"github.com/AkmalxonWeBd/education-platform/core/session"
)

func TestRollbarLogger(t *testing.T) {
	usr := session.User{ID: "u1", Name: "Malika", Email: "malika@school.uz"}

	tests := []struct {
		name  string
		debug bool
		log   func(l *RollbarLogger)
		want  []string
		skip  []string
	}{
		{
			name: "debug hidden outside debug mode",
			log:  func(l *RollbarLogger) { l.Debug("fetching users") },
			skip: []string{"fetching users"},
		},
		{
			name:  "debug shown in debug mode",
			debug: true,
			log:   func(l *RollbarLogger) { l.Debug("fetching users") },
			want:  []string{"fetching users"},
		},
		{
			name: "error with args",
			log:  func(l *RollbarLogger) { l.Error("GET /users failed", errors.New("boom"), usr) },
			want: []string{"GET /users failed", "boom", "Malika"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", TestMode: true, Debug: tt.debug})
			tt.log(l)
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.skip {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestRollbarLogger_prepare(t *testing.T) {
	l := RollbarLogger{}
	err := errors.New("boom")
	usr := session.User{ID: "u1"}

	got := l.prepare("msg", []interface{}{err, usr, &usr, map[string]interface{}{"key": "users"}})
	assert.Equal(t, []interface{}{"msg", err, map[string]interface{}{"key": "users"}}, got)
}
