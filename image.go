package main

import (
	"image"
	"image/color"
	"image/draw"
	"runtime"
	"sync"

	"atlasbuilder/rectpack"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// sprite 是一张加载到内存中的输入图片
type sprite struct {
	path string
	img  image.Image
	// source 是原始图片的边界
	source image.Rectangle
	// trim 是修剪后保留的区域，与 source 使用同一坐标系
	trim image.Rectangle
}

// size 返回参与打包的尺寸
func (s *sprite) size() rectpack.Size {
	return rectpack.NewSize(s.trim.Dx(), s.trim.Dy())
}

// trimmed 表示是否修剪掉了透明边缘
func (s *sprite) trimmed() bool {
	return s.trim != s.source
}

// sourceRect 返回保留区域相对于原始图片左上角的位置
func (s *sprite) sourceRect() rectpack.Rect {
	return rectpack.NewRect(s.trim.Min.X-s.source.Min.X, s.trim.Min.Y-s.source.Min.Y, s.trim.Dx(), s.trim.Dy())
}

// Parallel 把 [start, end) 分成最多 NumCPU 批并行执行 fn
func Parallel(start, end int, fn func(i int)) {
	n := end - start
	if n <= 0 {
		return
	}
	workers := runtime.NumCPU()
	if n < workers {
		// 如果任务数量少于CPU核心数，直接顺序执行
		for i := start; i < end; i++ {
			fn(i)
		}
		return
	}
	batchSize := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for from := start; from < end; from += batchSize {
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for i := from; i < to; i++ {
				fn(i)
			}
		}(from, min(from+batchSize, end))
	}
	wg.Wait()
}

// bbox 累积不透明像素的边界
type bbox struct {
	minX, minY, maxX, maxY int
	found                  bool
}

func (b *bbox) add(x, y int) {
	if !b.found {
		b.minX, b.minY, b.maxX, b.maxY = x, y, x, y
		b.found = true
		return
	}
	b.minX = min(b.minX, x)
	b.minY = min(b.minY, y)
	b.maxX = max(b.maxX, x)
	b.maxY = max(b.maxY, y)
}

// scanPix 扫描 8 位 RGBA/NRGBA 像素数据的 alpha 通道
func (b *bbox) scanPix(pix []uint8, stride int, bounds image.Rectangle, alphaThreshold uint8) {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		i := (y-bounds.Min.Y)*stride + 3
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if pix[i] > alphaThreshold {
				b.add(x, y)
			}
			i += 4
		}
	}
}

// GetImageBBox 返回 alpha 大于 alphaThreshold 的像素的边界。
// 图像完全透明时返回位于左上角的空矩形。
func GetImageBBox(img image.Image, alphaThreshold uint8) image.Rectangle {
	bounds := img.Bounds()
	if bounds.Empty() {
		return image.Rectangle{Min: bounds.Min, Max: bounds.Min}
	}
	var b bbox
	switch src := img.(type) {
	case *image.NRGBA:
		b.scanPix(src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y):], src.Stride, bounds, alphaThreshold)
	case *image.RGBA:
		// 预乘 alpha 不影响 alpha 通道本身
		b.scanPix(src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y):], src.Stride, bounds, alphaThreshold)
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				_, _, _, a := img.At(x, y).RGBA()
				if uint8(a>>8) > alphaThreshold {
					b.add(x, y)
				}
			}
		}
	}
	if !b.found {
		return image.Rectangle{Min: bounds.Min, Max: bounds.Min}
	}
	return image.Rect(b.minX, b.minY, b.maxX+1, b.maxY+1)
}

// loadSprites 并行解码图片并计算修剪区域，结果与 paths 按下标对齐
func loadSprites(paths []string, trim bool, alphaThreshold uint8) ([]*sprite, error) {
	sprites := make([]*sprite, len(paths))
	errs := make([]error, len(paths))
	Parallel(0, len(paths), func(i int) {
		img, err := imaging.Open(paths[i])
		if err != nil {
			errs[i] = &fileError{paths[i], err}
			return
		}
		s := &sprite{
			path:   paths[i],
			img:    img,
			source: img.Bounds(),
			trim:   img.Bounds(),
		}
		if trim {
			s.trim = GetImageBBox(img, alphaThreshold)
		}
		sprites[i] = s
	})
	// 返回下标最小的错误，保证结果可重复
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return sprites, nil
}

// composeAtlas 创建 size 大小的透明画布，并把每个精灵的保留区域绘制到对应位置。
// 旋转的精灵顺时针旋转90度后绘制。
func composeAtlas(size rectpack.Size, sprites []*sprite, placements []rectpack.Placement) *image.NRGBA {
	dst := imaging.New(size.Width, size.Height, color.NRGBA{0, 0, 0, 0})
	var mu sync.Mutex
	Parallel(0, len(sprites), func(i int) {
		p := placements[i]
		if p.IsEmpty() {
			return
		}
		src := imaging.Crop(sprites[i].img, sprites[i].trim)
		if p.Rotated {
			src = imaging.Rotate270(src)
		}
		mu.Lock()
		draw.Draw(dst, image.Rect(p.X, p.Y, p.Right(), p.Bottom()), src, image.Point{}, draw.Src)
		mu.Unlock()
	})
	return dst
}
