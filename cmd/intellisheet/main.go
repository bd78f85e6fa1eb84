package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"intellisheet/internal/config"
	"intellisheet/internal/exporter"
	"intellisheet/internal/importer"
	"intellisheet/internal/logger"
	"intellisheet/internal/normalizer"
	"intellisheet/internal/server"
	"intellisheet/internal/store"
	"intellisheet/internal/util"
)

const usage = `用法: intellisheet <命令> [参数]

命令:
  serve    启动 Web 服务（默认）
  import   批量导入工时表（目录或文件列表）
  export   导出关联视图为 xlsx / csv

使用 "intellisheet <命令> -h" 查看参数`

func main() {
	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe(args)
	case "import":
		err = runImport(args)
	case "export":
		err = runExport(args)
	case "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "未知命令: %s\n\n%s\n", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// env 每个命令共享的配置与存储
type env struct {
	cfg   *config.AppConfig
	info  config.LoadConfigInfo
	store *store.Store
}

func setup(configPath, dataDir string) (*env, error) {
	cfg, info, err := config.LoadConfigWithInfo(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败，使用默认配置: %v\n", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}
	if dataDir != "" {
		cfg.Data.DataDir = dataDir
	}

	logger.Init(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	fmt.Printf("数据目录: %s\n", dir)
	if info.Path != "" {
		fmt.Printf("配置文件: %s\n", info.Path)
	}

	st, err := store.New(config.DBPath(cfg))
	if err != nil {
		if store.IsLocked(err) {
			return nil, fmt.Errorf("数据库被其他进程占用: %w", err)
		}
		return nil, err
	}

	return &env{cfg: cfg, info: info, store: st}, nil
}

func banner() {
	fmt.Println("==========================================")
	fmt.Println("  IntelliSheet - 工时表归集与分析")
	fmt.Println("==========================================")
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "配置文件路径（默认为可执行文件同目录的 config.toml）")
	port := fs.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode := fs.Bool("dev", false, "开发模式（不自动打开浏览器）")
	dataDir := fs.String("dataDir", "", "数据目录 (覆盖配置文件)")
	_ = fs.Parse(args)

	banner()
	e, err := setup(*configPath, *dataDir)
	if err != nil {
		return err
	}
	defer e.store.Close()

	if *port > 0 && !e.info.PortSpecified {
		e.cfg.Server.Port = *port
	}
	if *devMode {
		e.cfg.Server.DevMode = true
	}

	srv, err := server.NewServer(e.cfg, e.store, logger.Named("server"))
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", e.cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", e.cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", e.cfg.Server.Port)
		errCh <- srv.Run(addr)
	}()

	if !e.cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowser(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		fmt.Println("\n正在关闭服务...")
		return nil
	case err := <-errCh:
		return fmt.Errorf("服务启动失败: %w", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "配置文件路径")
	dataDir := fs.String("dataDir", "", "数据目录 (覆盖配置文件)")
	inputDir := fs.String("dir", "", "工时表目录 (默认 config.toml 的 import.input_dir)")
	reset := fs.String("reset", "", "导入前清空数据: true/false (默认 config.toml 的 import.reset_before_batch)")
	employee := fs.String("employee", "", "导入 .json 文档时的员工 \"姓 名\"")
	_ = fs.Parse(args)

	banner()
	e, err := setup(*configPath, *dataDir)
	if err != nil {
		return err
	}
	defer e.store.Close()

	files := fs.Args()
	if len(files) == 0 {
		dir := *inputDir
		if dir == "" {
			dir = e.cfg.Import.InputDir
		}
		files, err = importer.DiscoverFiles(dir)
		if err != nil {
			return err
		}
		fmt.Printf("目录 %s 中发现 %d 个文件\n", dir, len(files))
	}
	if len(files) == 0 {
		return fmt.Errorf("没有可导入的文件")
	}

	doReset := e.cfg.Import.ResetBeforeBatch
	switch strings.ToLower(*reset) {
	case "true", "1", "yes":
		doReset = true
	case "false", "0", "no":
		doReset = false
	}

	coord := importer.NewCoordinator(e.store, normalizer.New(e.cfg.VocabularyOrDefault()), e.cfg.ParserOptions(), logger.Named("importer"))
	report, err := coord.Run(importer.ImportOptions{
		Files:    files,
		Reset:    doReset,
		Employee: *employee,
	})
	if report != nil {
		fmt.Printf("\n导入完成: %d 个文件成功, %d 个跳过, %d 个失败, 写入 %d 条工时, 跳过 %d 行\n",
			report.ImportedFiles, report.SkippedFiles, report.FailedFiles, report.ImportedRows, report.SkippedRows)
		for _, f := range report.Files {
			if f.Status == importer.StatusError {
				fmt.Printf("  ✗ %s: %s\n", f.Filename, strings.Join(f.Errors, "; "))
			}
		}
	}
	if err != nil {
		return err
	}

	totals, err := e.store.EmployeeTotals()
	if err != nil {
		return err
	}
	fmt.Println("\n员工汇总:")
	for _, t := range totals {
		fmt.Printf("  %-30s %5d 条记录 %6d 小时\n", strings.TrimSpace(t.LastName+" "+t.FirstName), t.Records, t.TotalHours)
	}
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", "", "配置文件路径")
	dataDir := fs.String("dataDir", "", "数据目录 (覆盖配置文件)")
	out := fs.String("out", "", "输出文件 (.xlsx 或 .csv；默认导出到数据目录 exports/)")
	from := fs.String("from", "", "起始日期 YYYY-MM-DD")
	to := fs.String("to", "", "结束日期 YYYY-MM-DD")
	project := fs.String("project", "", "只导出指定项目")
	_ = fs.Parse(args)

	e, err := setup(*configPath, *dataDir)
	if err != nil {
		return err
	}
	defer e.store.Close()

	query := store.TimesheetQueryOptions{From: *from, To: *to, Project: *project}
	path := *out
	if path == "" {
		path = config.GetDataPath(e.cfg, "exports", "intellisheet.xlsx")
	}

	exp := exporter.NewExporter(e.store)
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		n, err := exp.WriteCSV(f, query)
		if err != nil {
			return err
		}
		fmt.Printf("已导出 %d 条记录: %s\n", n, path)
		return nil
	}

	wb, err := exp.Export(exporter.ExportOptions{Query: query})
	if err != nil {
		return err
	}
	defer wb.Close()
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("保存 Excel 失败: %w", err)
	}
	fmt.Printf("已导出: %s\n", path)
	return nil
}
