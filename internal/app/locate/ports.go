package locate

import "context"

type ConfigStore interface {
	InstallRoot(ctx context.Context, cargoHome string) (string, error)
}

type Prober interface {
	IsDir(ctx context.Context, path string) (bool, error)
}
