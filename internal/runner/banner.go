package runner

import (
	"github.com/projectdiscovery/gologger"

	"github.com/lanscout/lanscout/pkg/version"
)

var banner = `
   __                                 __
  / /___ _____  _____________  __  __/ /_
 / / __ ` + "`" + `/ __ \/ ___/ ___/ __ \/ / / / __/
/ / /_/ / / / (__  ) /__/ /_/ / /_/ / /_
/_/\__,_/_/ /_/____/\___/\____/\__,_/\__/
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s%s\n", banner, version.GetVersion())
}
