package manifest

import "context"

type Store interface {
	Load(ctx context.Context, root string) (entries map[string][]string, found bool, err error)
}
