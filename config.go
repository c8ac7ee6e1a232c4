package main

import (
	"fmt"
	"os"
	"strings"

	"atlasbuilder/rectpack"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Options 是一次图集构建任务的全部参数。
// 既可以来自命令行，也可以来自 --config 指定的 YAML 文件。
type Options struct {
	Inputs []string `yaml:"inputs"` // 输入文件或目录

	ImageOutput      string `yaml:"image_output"`       // 图集图片路径
	MetaOutput       string `yaml:"meta_output"`        // 元数据路径
	MetaFormat       string `yaml:"meta_format"`        // hash 或 array
	MetaRootDir      string `yaml:"meta_root_dir"`      // 精灵名称相对的根目录
	MetaFilenameOnly bool   `yaml:"meta_filename_only"` // 精灵名称只保留文件名

	MaxWidth  int    `yaml:"max_width"`  // 最大宽度
	MaxHeight int    `yaml:"max_height"` // 最大高度
	Padding   int    `yaml:"padding"`    // 间距
	Rotate    bool   `yaml:"rotate"`     // 是否允许旋转
	Grow      bool   `yaml:"grow"`       // 是否从小画布开始增长
	Heuristic string `yaml:"heuristic"`  // 放置规则
	Sort      string `yaml:"sort"`       // 打包前的排序
	Multi     bool   `yaml:"multi"`      // 放不下时输出多个图集

	Trim           bool `yaml:"trim"`            // 是否修剪透明部分
	AlphaThreshold int  `yaml:"alpha_threshold"` // 透明度阈值

	DebugOutput  string `yaml:"debug_output"`  // 空闲矩形调试图片
	ReportOutput string `yaml:"report_output"` // PDF 布局报告
}

// defaultOptions 返回命令行的默认值
func defaultOptions() Options {
	return Options{
		ImageOutput: "atlas.png",
		MetaOutput:  "atlas.json",
		MetaFormat:  metaFormatHash,
		MaxWidth:    rectpack.DefaultSize,
		MaxHeight:   rectpack.DefaultSize,
		Grow:        true,
		Heuristic:   rectpack.BestShortSideFit.String(),
		Sort:        "area",
		Trim:        true,
	}
}

// bindFlags 把 Options 的字段注册为命令行参数
func (o *Options) bindFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.ImageOutput, "image-output", "o", o.ImageOutput, "atlas image output path")
	flags.StringVarP(&o.MetaOutput, "meta-output", "m", o.MetaOutput, "JSON metadata output path")
	flags.StringVar(&o.MetaFormat, "meta-format", o.MetaFormat, "metadata layout (hash, array)")
	flags.StringVar(&o.MetaRootDir, "meta-root-dir", o.MetaRootDir, "sprite names are written relative to this directory")
	flags.BoolVar(&o.MetaFilenameOnly, "meta-filename-only", o.MetaFilenameOnly, "sprite names are the base filename only")
	flags.IntVar(&o.MaxWidth, "max-width", o.MaxWidth, "maximum atlas width")
	flags.IntVar(&o.MaxHeight, "max-height", o.MaxHeight, "maximum atlas height")
	flags.IntVarP(&o.Padding, "padding", "p", o.Padding, "pixels between sprites and along the top/left edge")
	flags.BoolVarP(&o.Rotate, "rotate", "r", o.Rotate, "allow sprites to be rotated 90 degrees")
	flags.BoolVar(&o.Grow, "grow", o.Grow, "start small and double the atlas until everything fits")
	flags.StringVar(&o.Heuristic, "heuristic", o.Heuristic, "placement rule (BestShortSideFit, BestLongSideFit, BestAreaFit, BottomLeft)")
	flags.StringVar(&o.Sort, "sort", o.Sort, "order sprites before packing (area, perimeter, maxside, minside, diff, ratio, none)")
	flags.BoolVar(&o.Multi, "multi", o.Multi, "write additional atlases for sprites that do not fit")
	flags.BoolVar(&o.Trim, "trim", o.Trim, "trim transparent borders")
	flags.IntVar(&o.AlphaThreshold, "alpha-threshold", o.AlphaThreshold, "pixels with alpha at or below this value are trimmed")
	flags.StringVar(&o.DebugOutput, "debug-output", o.DebugOutput, "write the remaining free rectangles to this PNG")
	flags.StringVar(&o.ReportOutput, "report-output", o.ReportOutput, "write a PDF layout report")
}

// loadConfigFile 用 YAML 文件的内容覆盖 o，命令行上显式给出的参数保持不变。
func (o *Options) loadConfigFile(path string, flags *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	// 先记下显式给出的参数，解析 YAML 后再写回
	changed := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	if err := yaml.Unmarshal(data, o); err != nil {
		return &fileError{path, err}
	}
	for name, value := range changed {
		if err := flags.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// packConfig 校验参数并转换为 rectpack.Config
func (o *Options) packConfig() (rectpack.Config, error) {
	heuristic, err := rectpack.ResolveHeuristic(o.Heuristic)
	if err != nil {
		return rectpack.Config{}, err
	}
	config := rectpack.Config{
		MaxWidth:    o.MaxWidth,
		MaxHeight:   o.MaxHeight,
		AllowGrow:   o.Grow,
		AllowRotate: o.Rotate,
		Padding:     o.Padding,
		Heuristic:   heuristic,
	}
	return config, config.Validate()
}

// validate 检查参数，并把 MetaFormat 规范为小写
func (o *Options) validate() error {
	o.MetaFormat = strings.ToLower(o.MetaFormat)
	switch o.MetaFormat {
	case metaFormatHash, metaFormatArray:
	default:
		return fmt.Errorf("unknown meta format %q", o.MetaFormat)
	}
	if o.AlphaThreshold < 0 || o.AlphaThreshold > 255 {
		return fmt.Errorf("alpha threshold must be within 0-255 (given %v)", o.AlphaThreshold)
	}
	if o.ImageOutput == "" || o.MetaOutput == "" {
		return fmt.Errorf("image and meta output paths must not be empty")
	}
	if _, err := rectpack.ResolveSort(o.Sort); err != nil {
		return err
	}
	_, err := o.packConfig()
	return err
}
