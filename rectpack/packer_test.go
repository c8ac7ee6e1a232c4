package rectpack

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomSize returns a size within the given minimum and maximum sizes.
func randomSize(r *rand.Rand, minSize, maxSize Size) Size {
	w := r.Intn(maxSize.Width-minSize.Width) + minSize.Width
	h := r.Intn(maxSize.Height-minSize.Height) + minSize.Height
	return NewSize(w, h)
}

// randomColor (surprise!) returns a random color.
func randomColor(r *rand.Rand) color.RGBA {
	// Offset to use a minimum value so it is never pure black.
	return color.RGBA{
		R: uint8(r.Intn(240)) + 15,
		G: uint8(r.Intn(240)) + 15,
		B: uint8(r.Intn(240)) + 15,
		A: 255,
	}
}

// createImage colorizes and creates an image from packed rectangles to provide
// a visual representation.
func createImage(t *testing.T, path string, packer *Packer) {
	t.Helper()
	r := rand.New(rand.NewSource(1))
	size := packer.CanvasSize()
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)
	for _, placement := range packer.Placements() {
		bounds := image.Rect(placement.X, placement.Y, placement.Right(), placement.Bottom())
		draw.Draw(img, bounds, &image.Uniform{randomColor(r)}, image.Point{}, draw.Src)
	}
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
}

// requireValidLayout 检查间距膨胀后的结果两两不相交且都在画布内，
// 空闲矩形不与结果相交且互不包含。
func requireValidLayout(t *testing.T, p *Packer) {
	t.Helper()
	pad := p.Config().Padding
	canvas := NewRect(0, 0, p.CanvasSize().Width, p.CanvasSize().Height)
	var used []Rect
	for i, placement := range p.Placements() {
		if placement.IsEmpty() {
			continue
		}
		inflated := NewRect(placement.X, placement.Y, placement.Width+pad, placement.Height+pad)
		require.Truef(t, canvas.ContainsRect(inflated), "placement %d %v outside canvas %v", i, inflated, canvas)
		require.GreaterOrEqual(t, inflated.X, pad)
		require.GreaterOrEqual(t, inflated.Y, pad)
		for j, other := range used {
			require.Falsef(t, inflated.Intersects(other), "placements %v and %v (#%d) intersect", inflated, other, j)
		}
		used = append(used, inflated)
	}
	free := p.FreeRects()
	for i, a := range free {
		for _, u := range used {
			require.Falsef(t, a.Intersects(u), "free rect %v intersects placement %v", a, u)
		}
		for j, b := range free {
			if i != j {
				require.Falsef(t, a.ContainsRect(b), "free rect %v contains %v", a, b)
			}
		}
	}
}

func placementsOf(rects ...Rect) []Placement {
	placements := make([]Placement, len(rects))
	for i, rect := range rects {
		placements[i] = Placement{Rect: rect}
	}
	return placements
}

func TestNewPacker_InvalidConfig(t *testing.T) {
	_, err := NewPacker(Config{MaxWidth: 0, MaxHeight: 10})
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewPacker(Config{MaxWidth: 10, MaxHeight: 10, Padding: -1})
	assert.ErrorIs(t, err, ErrInvalidPadding)

	_, err = NewPacker(Config{MaxWidth: 10, MaxHeight: 10, Heuristic: Heuristic(42)})
	assert.ErrorIs(t, err, ErrInvalidHeuristic)
}

func TestPacker_InitialCanvas(t *testing.T) {
	fixed, err := NewPacker(Config{MaxWidth: 512, MaxHeight: 256})
	require.NoError(t, err)
	assert.Equal(t, NewSize(512, 256), fixed.CanvasSize())

	growing, err := NewPacker(Config{MaxWidth: 512, MaxHeight: 64, AllowGrow: true})
	require.NoError(t, err)
	assert.Equal(t, NewSize(SeedSize, 64), growing.CanvasSize())
	assert.Equal(t, NewSize(512, 64), growing.MaxSize())

	def := NewDefaultPacker()
	assert.Equal(t, NewSize(SeedSize, SeedSize), def.CanvasSize())
	assert.Equal(t, NewSize(DefaultSize, DefaultSize), def.MaxSize())
}

func TestPacker_Add(t *testing.T) {
	p := NewDefaultPacker()
	index, err := p.Add(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, index)
	index, err = p.Add(5, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, index)

	_, err = p.Add(-1, 4)
	assert.ErrorIs(t, err, ErrInvalidSize)
	assert.ErrorIs(t, p.AddSizes(NewSize(1, 1), NewSize(2, -2)), ErrInvalidSize)
	assert.Equal(t, 2, p.Len(), "invalid sizes are not added")
	assert.Equal(t, []Size{{3, 4}, {5, 6}}, p.Sizes())
	assert.Empty(t, p.Placements(), "add does not place")
}

// 100x100 的固定画布，无间距，不旋转，依次放入五个矩形。
// 第三个矩形之后，所有被包含的空闲矩形都已被删除，
// 50x10 的最佳短边匹配是 (10,0) 处 90x100 的空闲列。
func TestPacker_FixedCanvasSequence(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 100, MaxHeight: 100})
	require.NoError(t, err)
	require.NoError(t, p.AddSizes(
		NewSize(10, 10),
		NewSize(10, 10),
		NewSize(50, 10),
		NewSize(50, 50),
		NewSize(23, 75),
	))

	require.True(t, p.Pack())
	assert.Equal(t, placementsOf(
		NewRect(0, 0, 10, 10),
		NewRect(0, 10, 10, 10),
		NewRect(10, 0, 50, 10),
		NewRect(0, 20, 50, 50),
		NewRect(50, 10, 23, 75),
	), p.Placements())
	assert.True(t, p.Packed())
	requireValidLayout(t, p)
}

func TestPacker_GrowFromSeed(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 1024, MaxHeight: 1024, AllowGrow: true})
	require.NoError(t, err)
	_, err = p.Add(200, 100)
	require.NoError(t, err)
	require.Equal(t, NewSize(128, 128), p.CanvasSize())

	require.False(t, p.Pack())
	assert.False(t, p.Packed())

	require.True(t, p.Grow())
	// 相等时先加宽，256x128 已经能放下 200x100
	assert.Equal(t, NewSize(256, 128), p.CanvasSize())
	assert.Equal(t, placementsOf(NewRect(0, 0, 200, 100)), p.Placements())
}

func TestPacker_GrowBothSides(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 1024, MaxHeight: 1024, AllowGrow: true})
	require.NoError(t, err)
	_, err = p.Add(200, 200)
	require.NoError(t, err)

	require.False(t, p.Pack())
	require.True(t, p.Grow())
	assert.Equal(t, NewSize(256, 256), p.CanvasSize())
	assert.Equal(t, placementsOf(NewRect(0, 0, 200, 200)), p.Placements())
}

func TestPacker_GrowOnlyBelowLimit(t *testing.T) {
	wide, err := NewPacker(Config{MaxWidth: 1024, MaxHeight: 128, AllowGrow: true})
	require.NoError(t, err)
	_, err = wide.Add(600, 100)
	require.NoError(t, err)
	require.NoError(t, wide.PackAll())
	assert.Equal(t, NewSize(1024, 128), wide.CanvasSize())

	tall, err := NewPacker(Config{MaxWidth: 128, MaxHeight: 1024, AllowGrow: true})
	require.NoError(t, err)
	_, err = tall.Add(100, 600)
	require.NoError(t, err)
	require.NoError(t, tall.PackAll())
	assert.Equal(t, NewSize(128, 1024), tall.CanvasSize())
}

func TestPacker_GrowClampsToLimit(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 300, MaxHeight: 300, AllowGrow: true})
	require.NoError(t, err)
	_, err = p.Add(290, 290)
	require.NoError(t, err)
	require.NoError(t, p.PackAll())
	assert.Equal(t, NewSize(300, 300), p.CanvasSize())
}

func TestPacker_Padding(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 256, MaxHeight: 256, Padding: 2})
	require.NoError(t, err)
	_, err = p.Add(10, 10)
	require.NoError(t, err)

	require.True(t, p.Pack())
	assert.Equal(t, placementsOf(NewRect(2, 2, 10, 10)), p.Placements())
	// 空闲空间按 12x12 被占用
	assert.Equal(t, []Rect{
		NewRect(2, 14, 254, 242),
		NewRect(14, 2, 242, 254),
	}, p.FreeRects())
	assert.Equal(t, NewSize(14, 14), p.Bounds())
}

func TestPacker_ExhaustedCanvas(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 1024, MaxHeight: 1024, AllowGrow: true})
	require.NoError(t, err)
	_, err = p.Add(2000, 2000)
	require.NoError(t, err)

	require.False(t, p.Pack())
	assert.False(t, p.Grow())
	assert.Equal(t, NewSize(1024, 1024), p.CanvasSize())
	assert.False(t, p.Grow(), "grow at the limit keeps failing")

	q, err := NewPacker(Config{MaxWidth: 1024, MaxHeight: 1024, AllowGrow: true})
	require.NoError(t, err)
	_, err = q.Add(2000, 2000)
	require.NoError(t, err)
	assert.ErrorIs(t, q.PackAll(), ErrOutputSizeExceeded)
}

func TestPacker_GrowDisabled(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 64, MaxHeight: 64})
	require.NoError(t, err)
	_, err = p.Add(65, 1)
	require.NoError(t, err)
	assert.False(t, p.Pack())
	assert.False(t, p.Grow())
	assert.Equal(t, NewSize(64, 64), p.CanvasSize())
	assert.ErrorIs(t, p.PackAll(), ErrOutputSizeExceeded)
}

func TestPacker_FailedPackKeepsResults(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 100, MaxHeight: 100})
	require.NoError(t, err)
	_, err = p.Add(40, 40)
	require.NoError(t, err)
	require.True(t, p.Pack())
	before := p.Placements()
	freeBefore := append([]Rect(nil), p.FreeRects()...)

	_, err = p.Add(200, 200)
	require.NoError(t, err)
	assert.False(t, p.Packed())
	require.False(t, p.Pack())
	assert.Equal(t, before, p.Placements())
	assert.Equal(t, freeBefore, p.FreeRects())
}

func TestPacker_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(0x1234))
	p, err := NewPacker(Config{MaxWidth: 1024, MaxHeight: 1024, AllowGrow: true, AllowRotate: true, Padding: 1})
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.NoError(t, p.AddSizes(randomSize(r, NewSize(4, 4), NewSize(60, 60))))
	}
	require.NoError(t, p.PackAll())
	first := append([]Placement(nil), p.Placements()...)
	canvas := p.CanvasSize()

	require.True(t, p.Pack())
	assert.Equal(t, first, p.Placements())
	assert.Equal(t, canvas, p.CanvasSize())
}

func TestPacker_MonotonicGrowth(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	p, err := NewPacker(Config{MaxWidth: 2048, MaxHeight: 1024, AllowGrow: true})
	require.NoError(t, err)
	for i := 0; i < 64; i++ {
		prev := p.CanvasSize()
		require.NoError(t, p.AddSizes(randomSize(r, NewSize(16, 16), NewSize(96, 96))))
		if !p.Pack() {
			require.True(t, p.Grow())
		}
		size := p.CanvasSize()
		assert.GreaterOrEqual(t, size.Width, prev.Width)
		assert.GreaterOrEqual(t, size.Height, prev.Height)
		assert.LessOrEqual(t, size.Width, 2048)
		assert.LessOrEqual(t, size.Height, 1024)
		requireValidLayout(t, p)
	}
}

func TestPacker_Rotation(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 10, MaxHeight: 50, AllowRotate: true})
	require.NoError(t, err)
	_, err = p.Add(50, 10)
	require.NoError(t, err)
	require.True(t, p.Pack())
	assert.Equal(t, []Placement{{Rect: NewRect(0, 0, 10, 50), Rotated: true}}, p.Placements())

	upright, err := NewPacker(Config{MaxWidth: 10, MaxHeight: 50})
	require.NoError(t, err)
	_, err = upright.Add(50, 10)
	require.NoError(t, err)
	assert.False(t, upright.Pack())
}

func TestPacker_ZeroSizedItems(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 64, MaxHeight: 64, Padding: 1})
	require.NoError(t, err)
	require.NoError(t, p.AddSizes(NewSize(0, 5), NewSize(10, 10), NewSize(5, 0)))

	require.True(t, p.Pack())
	assert.Equal(t, placementsOf(
		NewRect(1, 1, 0, 5),
		NewRect(1, 1, 10, 10),
		NewRect(1, 1, 5, 0),
	), p.Placements())
	requireValidLayout(t, p)
}

func TestPacker_EmptyBatch(t *testing.T) {
	p := NewDefaultPacker()
	assert.True(t, p.Pack())
	assert.Empty(t, p.Placements())
	assert.Equal(t, 0.0, p.Occupancy())
}

func TestPacker_Clear(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 1024, MaxHeight: 1024, AllowGrow: true})
	require.NoError(t, err)
	_, err = p.Add(500, 500)
	require.NoError(t, err)
	require.NoError(t, p.PackAll())
	require.Equal(t, NewSize(512, 512), p.CanvasSize())

	p.Clear()
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.Placements())
	assert.Equal(t, NewSize(SeedSize, SeedSize), p.CanvasSize())
	assert.Equal(t, []Rect{NewRect(0, 0, SeedSize, SeedSize)}, p.FreeRects())
}

func TestPacker_Occupancy(t *testing.T) {
	p, err := NewPacker(Config{MaxWidth: 100, MaxHeight: 100})
	require.NoError(t, err)
	require.NoError(t, p.AddSizes(NewSize(50, 50), NewSize(50, 50)))
	require.True(t, p.Pack())
	assert.InDelta(t, 0.5, p.Occupancy(), 1e-9)
}

func TestRandom(t *testing.T) {
	const (
		count       = 300
		atlasWidth  = 1024
		atlasHeight = 1024
	)
	r := rand.New(rand.NewSource(0x5eed))
	minSize := NewSize(8, 8)
	maxSize := NewSize(64, 64)

	// 生成测试用随机尺寸
	sizes := make([]Size, count)
	for i := range sizes {
		sizes[i] = randomSize(r, minSize, maxSize)
	}
	order := SortOrder(sizes, SortArea)

	for _, heuristic := range []Heuristic{BestShortSideFit, BestLongSideFit, BestAreaFit, BottomLeft} {
		t.Run(heuristic.String(), func(t *testing.T) {
			p, err := NewPacker(Config{
				MaxWidth:    atlasWidth,
				MaxHeight:   atlasHeight,
				AllowGrow:   true,
				AllowRotate: true,
				Padding:     2,
				Heuristic:   heuristic,
			})
			require.NoError(t, err)
			for _, i := range order {
				_, err := p.Add(sizes[i].Width, sizes[i].Height)
				require.NoError(t, err)
			}
			require.NoError(t, p.PackAll())
			require.Len(t, p.Placements(), count)

			// 验证旋转后宽高互换
			for i, placement := range p.Placements() {
				size := sizes[order[i]]
				if placement.Rotated {
					assert.Equal(t, size.Rotated(), placement.Size)
				} else {
					assert.Equal(t, size, placement.Size)
				}
			}
			// 验证图块没有重叠
			requireValidLayout(t, p)
			createImage(t, filepath.Join(t.TempDir(), "packed.png"), p)
		})
	}
}
