package util

import (
	"errors"
	"os/exec"
	"runtime"
)

// browserCommands 各平台按顺序尝试的打开方式
var browserCommands = map[string][][]string{
	// rundll32 比 cmd /c start 更稳定
	"windows": {{"rundll32", "url.dll,FileProtocolHandler"}, {"explorer"}},
	"darwin":  {{"open"}},
	"linux":   {{"xdg-open"}, {"sensible-browser"}, {"firefox"}, {"google-chrome"}},
}

// OpenBrowser 用默认浏览器打开 url，逐个尝试直到某个命令成功启动
func OpenBrowser(url string) error {
	candidates, ok := browserCommands[runtime.GOOS]
	if !ok {
		candidates = browserCommands["linux"]
	}

	var errs []error
	for _, argv := range candidates {
		args := append(append([]string(nil), argv[1:]...), url)
		if err := exec.Command(argv[0], args...).Start(); err != nil {
			errs = append(errs, err)
			continue
		}
		return nil
	}
	return errors.Join(errs...)
}
