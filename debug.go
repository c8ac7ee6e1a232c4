package main

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"

	"atlasbuilder/rectpack"

	"github.com/disintegration/imaging"
)

// debugLineWidth 是空闲矩形轮廓的线宽
const debugLineWidth = 2

// writeDebugImage 把空闲矩形画成不同颜色的轮廓，方便检查打包后剩余的空间。
// 颜色由固定的种子生成，同样的输入得到同样的图片。
func writeDebugImage(path string, size rectpack.Size, freeRects []rectpack.Rect) error {
	return imaging.Save(drawFreeRects(size, freeRects), path)
}

func drawFreeRects(size rectpack.Size, freeRects []rectpack.Rect) *image.NRGBA {
	dst := imaging.New(size.Width, size.Height, color.NRGBA{0, 0, 0, 0})
	r := rand.New(rand.NewSource(int64(len(freeRects))))
	for _, rect := range freeRects {
		c := &image.Uniform{color.NRGBA{
			R: uint8(r.Intn(256)),
			G: uint8(r.Intn(256)),
			B: uint8(r.Intn(256)),
			A: 255,
		}}
		outer := image.Rect(rect.X, rect.Y, rect.Right(), rect.Bottom())
		inner := outer.Inset(debugLineWidth)
		// 上、下、左、右四条边
		edges := [4]image.Rectangle{
			image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
			image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
			image.Rect(outer.Min.X, outer.Min.Y, inner.Min.X, outer.Max.Y),
			image.Rect(inner.Max.X, outer.Min.Y, outer.Max.X, outer.Max.Y),
		}
		for _, edge := range edges {
			draw.Draw(dst, edge.Intersect(dst.Bounds()), c, image.Point{}, draw.Over)
		}
	}
	return dst
}
