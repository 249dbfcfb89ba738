package mappkg

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

var ErrImageLoadFailed = errors.New("tileset image load failed")

// ImageLoader 按文件名加载 tileset 图片
type ImageLoader interface {
	Load(ctx context.Context, name string) (image.Image, error)
}

// DirLoader 所有 tileset 图片放在同一个目录下
type DirLoader struct {
	Dir string
}

func (l DirLoader) Load(ctx context.Context, name string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(l.Dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// TilesetImageName 只取编辑器记录路径的最后一段（兼容 / 与 \）
func TilesetImageName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// LoadImages 并发加载全部 tileset 图片；任意一张失败则整体失败，不返回部分结果
func LoadImages(ctx context.Context, tm *TiledMap, loader ImageLoader) (map[int]image.Image, error) {
	imgs := make([]image.Image, len(tm.Tilesets))
	eg, ctx := errgroup.WithContext(ctx)
	for i := range tm.Tilesets {
		i, ts := i, tm.Tilesets[i]
		eg.Go(func() error {
			img, err := loader.Load(ctx, TilesetImageName(ts.Image))
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrImageLoadFailed, ts.Image, err)
			}
			imgs[i] = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int]image.Image, len(imgs))
	for i, ts := range tm.Tilesets {
		out[ts.FirstGID] = imgs[i]
	}
	return out, nil
}
