package contracts

import (
	"context"

	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// Renderer receives finished messages. Layout, animation and localization live behind it.
type Renderer interface {
	Deliver(ctx context.Context, msg models.Message) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(ctx context.Context, msg models.Message) error

func (f RendererFunc) Deliver(ctx context.Context, msg models.Message) error {
	return f(ctx, msg)
}
