package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newUnpackCommand() *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "unpack <meta.json>",
		Short: "Extracts the sprites of an atlas back into individual images",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return &usageError{err}
			}
			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return unpack(args[0], outputDir)
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", ".", "directory the sprites are written to")
	return cmd
}

// readMeta 读取 hash 或 array 格式的元数据。
// 返回的名称与精灵按下标对齐，hash 格式按名称排序。
func readMeta(path string) (MetaInfo, []string, []Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MetaInfo{}, nil, nil, err
	}
	var probe struct {
		Frames json.RawMessage `json:"frames"`
		Meta   MetaInfo        `json:"meta"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return MetaInfo{}, nil, nil, &fileError{path, err}
	}
	raw := bytes.TrimSpace(probe.Frames)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return MetaInfo{}, nil, nil, &fileError{path, errors.New("no frames")}
	}

	if raw[0] == '[' {
		var frames []Frame
		if err := json.Unmarshal(raw, &frames); err != nil {
			return MetaInfo{}, nil, nil, &fileError{path, err}
		}
		names := make([]string, len(frames))
		for i, f := range frames {
			names[i] = f.Filename
		}
		return probe.Meta, names, frames, nil
	}

	var hash map[string]Frame
	if err := json.Unmarshal(raw, &hash); err != nil {
		return MetaInfo{}, nil, nil, &fileError{path, err}
	}
	names := make([]string, 0, len(hash))
	for name := range hash {
		names = append(names, name)
	}
	sort.Strings(names)
	frames := make([]Frame, len(names))
	for i, name := range names {
		frames[i] = hash[name]
	}
	return probe.Meta, names, frames, nil
}

// extractSprite 从图集中取出精灵并恢复为原始尺寸的图片
func extractSprite(atlasImg image.Image, f Frame) *image.NRGBA {
	dst := imaging.New(f.SourceSize.Width, f.SourceSize.Height, color.NRGBA{0, 0, 0, 0})
	region := f.Region()
	if region.IsEmpty() {
		return dst
	}
	sub := imaging.Crop(atlasImg, image.Rect(region.X, region.Y, region.Right(), region.Bottom()))
	if f.Rotated {
		// 打包时顺时针旋转了90度
		sub = imaging.Rotate90(sub)
	}
	ss := f.SpriteSourceSize
	draw.Draw(dst, image.Rect(ss.X, ss.Y, ss.Right(), ss.Bottom()), sub, image.Point{}, draw.Src)
	return dst
}

// unpackPath 计算精灵的输出路径。
// 不在输出目录之内的名称只保留文件名，不支持写出的格式改为 PNG。
func unpackPath(outputDir, name string) string {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		logrus.WithField("name", name).Warn("sprite name is not a local path, using its base name")
		rel = filepath.Base(rel)
	}
	path := filepath.Join(outputDir, rel)
	if _, err := imaging.FormatFromFilename(path); err != nil {
		path += ".png"
	}
	return path
}

// unpack 把 metaPath 描述的图集拆分为单独的图片
func unpack(metaPath, outputDir string) error {
	start := time.Now()
	info, names, frames, err := readMeta(metaPath)
	if err != nil {
		return fmt.Errorf("read meta: %w", err)
	}

	atlasPath := filepath.Join(filepath.Dir(metaPath), info.Image)
	atlasImg, err := imaging.Open(atlasPath)
	if err != nil {
		return &fileError{atlasPath, err}
	}

	for i, f := range frames {
		path := unpackPath(outputDir, names[i])
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := imaging.Save(extractSprite(atlasImg, f), path); err != nil {
			return &fileError{path, err}
		}
		logrus.WithFields(logrus.Fields{"sprite": names[i], "path": path}).Debug("extracted sprite")
	}
	logrus.WithFields(logrus.Fields{
		"sprites": len(frames),
		"output":  outputDir,
		"elapsed": time.Since(start),
	}).Info("unpacked atlas")
	return nil
}
