package input

import (
	"context"
	"errors"
	"testing"

	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/template"
)

func TestExecutePassesThrough(t *testing.T) {
	in := New("InputTemplate", nil)
	p := packet.New(packet.Value{})
	c := packet.NewContainer(p)

	out, err := in.Execute(context.Background(), c)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != c || out.Len() != 1 || out.First() != p {
		t.Error("Expected container to be returned unchanged")
	}
}

func TestFactory(t *testing.T) {
	if _, err := Factory("InputTemplate", nil, nil); err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if _, err := Factory("InputTemplate", map[string]any{"x": 1}, nil); !errors.Is(err, template.ErrInvalidAttributes) {
		t.Errorf("Expected ErrInvalidAttributes, got %v", err)
	}
}
