package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"hranalyse/internal/calculator"
	"hranalyse/internal/exporter"
)

// 环境变量
const (
	EnvBenchmarkPath = "HRANALYSE_BENCHMARK_PATH"
	EnvDataDir       = "HRANALYSE_DATA_DIR"
	EnvPort          = "HRANALYSE_PORT"
)

// ConfigFileName 配置文件名（位于可执行文件同目录）
const ConfigFileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server    ServerConfig          `toml:"server"`
	Data      DataConfig            `toml:"data"`
	Analysis  AnalysisConfig        `toml:"analysis"`
	Quality   calculator.Thresholds `toml:"quality"`
	Benchmark BenchmarkConfig       `toml:"benchmark"`
	Charts    ChartsConfig          `toml:"charts"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	DownloadTTL int  `toml:"download_ttl_minutes"`
	MaxUploadMB int  `toml:"max_upload_mb"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBFile  string `toml:"db_file"`
}

// AnalysisConfig 分析默认参数（可被已保存的设置与请求参数覆盖）
type AnalysisConfig struct {
	RetirementAge int    `toml:"retirement_age"`
	Region        string `toml:"region"`
}

// BenchmarkConfig 参考表；Path 为空时使用内置表
type BenchmarkConfig struct {
	Path string `toml:"path"`
}

// ChartsConfig 图表输出
type ChartsConfig struct {
	Width    string   `toml:"width"`
	Height   string   `toml:"height"`
	Palette  []string `toml:"palette"`
	Workbook bool     `toml:"workbook"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	ro := exporter.DefaultRenderOptions()
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			DownloadTTL: 10,
			MaxUploadMB: 32,
		},
		Data: DataConfig{
			DataDir: "data",
			DBFile:  "hranalyse.db",
		},
		Analysis: AnalysisConfig{
			RetirementAge: calculator.DefaultRetirementAge,
			Region:        "",
		},
		Quality: calculator.DefaultThresholds(),
		Charts: ChartsConfig{
			Width:    ro.Width,
			Height:   ro.Height,
			Palette:  append([]string(nil), exporter.DefaultPalette...),
			Workbook: true,
		},
	}
}

// ExporterOptions 转换为导出器选项
func (c *AppConfig) ExporterOptions() exporter.Options {
	return exporter.Options{
		Width:    c.Charts.Width,
		Height:   c.Charts.Height,
		Palette:  c.Charts.Palette,
		Workbook: c.Charts.Workbook,
	}
}

// DownloadTTL 下载链接有效期
func (c *AppConfig) DownloadTTL() time.Duration {
	if c.Server.DownloadTTL <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.Server.DownloadTTL) * time.Minute
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if err := calculator.ValidateRetirementAge(c.Analysis.RetirementAge); err != nil {
		return fmt.Errorf("analysis.retirement_age: %w", err)
	}
	if c.Quality.CompletenessWeight < 0 || c.Quality.PlausibilityWeight < 0 {
		return fmt.Errorf("quality weights must not be negative")
	}
	return nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func exeDirOrCwd() string {
	exeDir, err := GetExeDir()
	if err != nil || exeDir == "" {
		// 无法获取可执行文件目录，使用当前目录
		return "."
	}
	return exeDir
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置
//
// 先加载 .env（不覆盖已有环境变量），再应用环境变量覆盖。
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir := exeDirOrCwd()
	_ = godotenv.Load(filepath.Join(exeDir, ".env"))
	_ = godotenv.Load()
	return LoadFrom(filepath.Join(exeDir, ConfigFileName))
}

// LoadFrom 从指定路径加载配置；文件不存在时使用默认配置
func LoadFrom(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, info, err
	}

	// 环境变量覆盖
	if v := os.Getenv(EnvBenchmarkPath); v != "" {
		config.Benchmark.Path = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, info, fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		config.Server.Port = port
		info.PortSpecified = true
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	return SaveConfigTo(filepath.Join(exeDirOrCwd(), ConfigFileName), config)
}

// SaveConfigTo 保存配置到指定路径
func SaveConfigTo(path string, config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir 数据目录；相对路径基于可执行文件目录
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	return filepath.Join(exeDirOrCwd(), config.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)
	if err := os.MkdirAll(filepath.Join(dataDir, "exports"), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// DBPath 数据库文件路径
func DBPath(config *AppConfig) string {
	return filepath.Join(ResolveDataDir(config), config.Data.DBFile)
}
