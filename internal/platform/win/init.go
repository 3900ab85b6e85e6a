//go:build windows

package win

import (
	"github.com/winmcp/winmcp/internal/platform"
	"github.com/winmcp/winmcp/internal/shell"
)

func init() {
	platform.NewProviderFunc = newProvider
}

func newProvider() (*platform.Provider, error) {
	enablePerMonitorDPI()

	auto, err := newAutomation()
	if err != nil {
		return nil, err
	}
	api := windowAPI{}
	return &platform.Provider{
		Windows:       api,
		Automation:    auto,
		Processes:     processAPI{},
		Inputter:      inputter{screen: api},
		Screenshotter: screenshotter{screen: api},
		Shell:         shell.Runner{},
		Registry:      registryAPI{},
	}, nil
}
