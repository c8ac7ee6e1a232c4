package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"atlasbuilder/rectpack"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// atlas 是一个输出图集的打包结果
type atlas struct {
	size rectpack.Size
	// sprites 与 placements 按下标对齐
	sprites    []*sprite
	placements []rectpack.Placement
	freeRects  []rectpack.Rect
}

// occupancy 计算精灵面积占画布面积的比例
func (a *atlas) occupancy() float64 {
	area := a.size.Area()
	if area == 0 {
		return 0
	}
	used := 0
	for _, p := range a.placements {
		used += p.Area()
	}
	return float64(used) / float64(area)
}

// outputs 是一个图集的各个输出文件
type outputs struct {
	image, meta, debug string
}

// indexedPath 在扩展名之前插入图集编号，如 atlas.png -> atlas_1.png
func indexedPath(path string, index int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), index, ext)
}

// outputPathsFor 只有一个图集时使用原始路径，否则每个路径都带上图集编号
func outputPathsFor(opts *Options, count int) []outputs {
	paths := make([]outputs, count)
	for i := range paths {
		paths[i] = outputs{image: opts.ImageOutput, meta: opts.MetaOutput, debug: opts.DebugOutput}
		if count == 1 {
			continue
		}
		paths[i].image = indexedPath(opts.ImageOutput, i)
		paths[i].meta = indexedPath(opts.MetaOutput, i)
		if opts.DebugOutput != "" {
			paths[i].debug = indexedPath(opts.DebugOutput, i)
		}
	}
	return paths
}

// packAtlases 打包全部精灵。multi 为 false 时所有精灵必须放进一个图集。
func packAtlases(config rectpack.Config, sprites []*sprite, multi bool) ([]atlas, error) {
	sizes := make([]rectpack.Size, len(sprites))
	for i, s := range sprites {
		sizes[i] = s.size()
	}
	if multi {
		bins, err := rectpack.PackBins(config, sizes)
		if err != nil {
			return nil, err
		}
		atlases := make([]atlas, len(bins))
		for i, bin := range bins {
			a := atlas{size: bin.Size, placements: bin.Placements, freeRects: bin.FreeRects}
			for _, index := range bin.Items {
				a.sprites = append(a.sprites, sprites[index])
			}
			atlases[i] = a
		}
		return atlases, nil
	}

	packer, err := rectpack.NewPacker(config)
	if err != nil {
		return nil, err
	}
	if err := packer.AddSizes(sizes...); err != nil {
		return nil, err
	}
	if err := packer.PackAll(); err != nil {
		return nil, err
	}
	return []atlas{{
		size:       packer.CanvasSize(),
		sprites:    sprites,
		placements: packer.Placements(),
		freeRects:  packer.FreeRects(),
	}}, nil
}

// build 执行一次完整的图集构建
func build(opts *Options) error {
	start := time.Now()
	config, err := opts.packConfig()
	if err != nil {
		return err
	}
	compare, err := rectpack.ResolveSort(opts.Sort)
	if err != nil {
		return err
	}

	paths, err := collectInputs(opts.Inputs)
	if err != nil {
		return err
	}
	logrus.WithField("count", len(paths)).Info("found input images")

	stepStart := time.Now()
	sprites, err := loadSprites(paths, opts.Trim, uint8(opts.AlphaThreshold))
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"trim":    opts.Trim,
		"elapsed": time.Since(stepStart),
	}).Debug("decoded images")

	sizes := make([]rectpack.Size, len(sprites))
	for i, s := range sprites {
		sizes[i] = s.size()
	}
	ordered := make([]*sprite, len(sprites))
	for i, index := range rectpack.SortOrder(sizes, compare) {
		ordered[i] = sprites[index]
	}

	stepStart = time.Now()
	atlases, err := packAtlases(config, ordered, opts.Multi)
	if err != nil {
		return fmt.Errorf("pack %d images into %vx%v: %w", len(ordered), config.MaxWidth, config.MaxHeight, err)
	}
	logrus.WithFields(logrus.Fields{
		"atlases":   len(atlases),
		"heuristic": config.Heuristic,
		"elapsed":   time.Since(stepStart),
	}).Debug("packed")

	names := make([][]string, len(atlases))
	for i, out := range outputPathsFor(opts, len(atlases)) {
		a := &atlases[i]
		names[i] = make([]string, len(a.sprites))
		for k, s := range a.sprites {
			names[i][k] = spriteName(s.path, opts.MetaRootDir, opts.MetaFilenameOnly)
		}
		if err := writeAtlas(a, out, opts.MetaFormat, names[i]); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"atlas":     i,
			"image":     out.image,
			"size":      a.size,
			"sprites":   len(a.sprites),
			"occupancy": fmt.Sprintf("%.2f%%", a.occupancy()*100),
		}).Info("wrote atlas")
	}

	if opts.ReportOutput != "" {
		if err := writeReport(opts.ReportOutput, atlases, names); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logrus.WithField("path", opts.ReportOutput).Info("wrote layout report")
	}
	logrus.WithField("elapsed", time.Since(start)).Debug("done")
	return nil
}

// writeAtlas 输出一个图集的图片、元数据和调试图片
func writeAtlas(a *atlas, out outputs, format string, names []string) error {
	for _, path := range []string{out.image, out.meta, out.debug} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
	}

	img := composeAtlas(a.size, a.sprites, a.placements)
	if err := imaging.Save(img, out.image); err != nil {
		return &fileError{out.image, err}
	}

	frames := make([]Frame, len(a.sprites))
	for i, s := range a.sprites {
		frames[i] = newFrame(s, a.placements[i])
	}
	info := MetaInfo{
		App:   appName + " " + VERSION,
		Image: filepath.Base(out.image),
		Size:  a.size,
	}
	if err := writeMeta(out.meta, format, info, names, frames); err != nil {
		return &fileError{out.meta, err}
	}

	if out.debug != "" {
		if err := writeDebugImage(out.debug, a.size, a.freeRects); err != nil {
			return &fileError{out.debug, err}
		}
		logrus.WithFields(logrus.Fields{
			"path":       out.debug,
			"free_rects": len(a.freeRects),
		}).Debug("wrote free rects")
	}
	return nil
}
