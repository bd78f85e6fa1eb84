package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"intellisheet/internal/normalizer"
	"intellisheet/internal/parser"
)

// AppConfig 应用配置
type AppConfig struct {
	Server     ServerConfig          `toml:"server"`
	Data       DataConfig            `toml:"data"`
	Import     ImportConfig          `toml:"import"`
	Vocabulary normalizer.Vocabulary `toml:"vocabulary"`
	Logging    LoggingConfig         `toml:"logging"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBFile  string `toml:"db_file"`
}

// ImportConfig 工时表读取与批量导入配置
type ImportConfig struct {
	InputDir         string `toml:"input_dir"`
	SheetName        string `toml:"sheet_name"`
	NameCell         string `toml:"name_cell"`
	HeaderRow        int    `toml:"header_row"`
	ResetBeforeBatch bool   `toml:"reset_before_batch"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string // 实际读取的配置文件，未找到时为空
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20261,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
			DBFile:  "intellisheet.db",
		},
		Import: ImportConfig{
			InputDir:         "timesheets",
			SheetName:        "Foglio1",
			NameCell:         "Q2",
			HeaderRow:        5,
			ResetBeforeBatch: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ParserOptions 转换为工时表读取选项
func (c *AppConfig) ParserOptions() parser.Options {
	return parser.Options{
		SheetName: c.Import.SheetName,
		NameCell:  c.Import.NameCell,
		HeaderRow: c.Import.HeaderRow,
	}
}

// VocabularyOrDefault 内置词表与配置合并后的结果
func (c *AppConfig) VocabularyOrDefault() normalizer.Vocabulary {
	return normalizer.DefaultVocabulary().Merge(c.Vocabulary)
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

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息；path 为空时使用可执行文件同目录
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			applyEnv(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.Path = path
	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// applyEnv 环境变量覆盖
func applyEnv(config *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("INTELLISHEET_DATA_DIR")); v != "" {
		config.Data.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("INTELLISHEET_LOG_LEVEL")); v != "" {
		config.Logging.Level = v
	}
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// SaveConfig 保存配置到 path（为空时为可执行文件同目录）
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir 相对路径的数据目录以可执行文件所在目录为基准
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 上传与导出子目录
	for _, subdir := range []string{"uploads", "exports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// DBPath 数据库文件路径
func DBPath(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DBFile) {
		return config.Data.DBFile
	}
	return filepath.Join(ResolveDataDir(config), config.Data.DBFile)
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(ResolveDataDir(config), subdir, filename)
}
