package devserver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/adapters/devserver"
)

func TestInjectScript(t *testing.T) {
	tag := `<script src="/__kiln/livereload.js"></script>`

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "before closing body",
			in:   "<html><body><canvas></canvas></body></html>",
			want: "<html><body><canvas></canvas>" + tag + "</body></html>",
		},
		{
			name: "upper case body",
			in:   "<HTML><BODY></BODY></HTML>",
			want: "<HTML><BODY>" + tag + "</BODY></HTML>",
		},
		{
			name: "last body wins",
			in:   "<body><pre>&lt;/body&gt; </body></pre></body>",
			want: "<body><pre>&lt;/body&gt; </body></pre>" + tag + "</body>",
		},
		{
			name: "no body appends",
			in:   "<p>fragment</p>",
			want: "<p>fragment</p>" + tag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(devserver.InjectScript([]byte(tt.in))))
		})
	}
}
