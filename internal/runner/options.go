package runner

import (
	"os"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"

	"github.com/lanscout/lanscout/pkg/version"
)

var au = aurora.New(aurora.WithColors(true))

var (
	DefaultCommunity = envutil.GetEnvOrDefault("LANSCOUT_COMMUNITY", "public")
	DefaultInventory = envutil.GetEnvOrDefault("LANSCOUT_INVENTORY", "inventory.csv")
)

// Options contains the configuration options for tuning the survey process.
type Options struct {
	ConfigFile   string
	SegmentsFile string
	AutoDiscover bool

	InventoryPath     string
	OutputFile        string
	OverwriteSegments bool

	LivenessWidth int
	EnrichWidth   int
	PingTimeout   int
	RawICMP       bool

	DiscoveryWindow int

	DisableSSH     bool
	DisableSMB     bool
	DisableTLS     bool
	DisableHTTP    bool
	DisableFavicon bool
	DisableSNMP    bool

	SSHTimeout     int
	SMBTimeout     int
	TLSTimeout     int
	HTTPTimeout    int
	FaviconTimeout int
	SNMPTimeout    int
	NameTimeout    int
	SNMPCommunity  string

	WatchInterval int

	Verbose bool
	Silent  bool
	NoColor bool
	Version bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`lanscout surveys IPv4 LAN segments and keeps a per-host inventory enriched over ping, ARP, SSDP, mDNS, SSH, SMB, TLS, HTTP and SNMP`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&options.SegmentsFile, "segments", "s", "", "file with one '<name> <cidr>' segment per line"),
		flagSet.BoolVarP(&options.AutoDiscover, "auto-discover", "ad", false, "survey the segments of the local interfaces"),
		flagSet.StringVar(&options.ConfigFile, "config", "", "json configuration file"),
	)

	flagSet.CreateGroup("inventory", "Inventory",
		flagSet.StringVarP(&options.InventoryPath, "inventory", "inv", DefaultInventory, "persisted inventory file"),
		flagSet.StringVarP(&options.OutputFile, "output", "o", "", "also write cycle rows to a file"),
		flagSet.BoolVarP(&options.OverwriteSegments, "overwrite-segments", "ow", false, "replace the persisted segments label with the current segment name"),
	)

	flagSet.CreateGroup("liveness", "Liveness",
		flagSet.IntVarP(&options.LivenessWidth, "liveness-width", "lw", 80, "concurrent liveness probes"),
		flagSet.IntVarP(&options.PingTimeout, "ping-timeout", "pt", 2000, "per-host liveness timeout in milliseconds"),
		flagSet.BoolVar(&options.RawICMP, "raw-icmp", false, "use raw icmp sockets instead of the system ping (needs privileges)"),
	)

	flagSet.CreateGroup("discovery", "Discovery",
		flagSet.IntVarP(&options.DiscoveryWindow, "discovery-window", "dw", 3, "ssdp/mdns listening window in seconds"),
	)

	flagSet.CreateGroup("probes", "Probes",
		flagSet.IntVarP(&options.EnrichWidth, "enrich-width", "ew", 30, "concurrent hosts in the enrichment and naming phases"),
		flagSet.BoolVar(&options.DisableSSH, "no-ssh", false, "disable the ssh banner probe"),
		flagSet.BoolVar(&options.DisableSMB, "no-smb", false, "disable the smb presence probe"),
		flagSet.BoolVar(&options.DisableTLS, "no-tls", false, "disable the tls certificate probe"),
		flagSet.BoolVar(&options.DisableHTTP, "no-http", false, "disable the http info probe"),
		flagSet.BoolVar(&options.DisableFavicon, "no-favicon", false, "disable the favicon fingerprint probe"),
		flagSet.BoolVar(&options.DisableSNMP, "no-snmp", false, "disable the snmp probe"),
		flagSet.IntVar(&options.SSHTimeout, "ssh-timeout", 3000, "ssh probe timeout in milliseconds"),
		flagSet.IntVar(&options.SMBTimeout, "smb-timeout", 2000, "smb probe timeout in milliseconds"),
		flagSet.IntVar(&options.TLSTimeout, "tls-timeout", 3000, "tls probe timeout in milliseconds"),
		flagSet.IntVar(&options.HTTPTimeout, "http-timeout", 5000, "http probe timeout in milliseconds"),
		flagSet.IntVar(&options.FaviconTimeout, "favicon-timeout", 5000, "favicon probe timeout in milliseconds"),
		flagSet.IntVar(&options.SNMPTimeout, "snmp-timeout", 2000, "snmp probe timeout in milliseconds"),
		flagSet.IntVar(&options.NameTimeout, "name-timeout", 2000, "per-lookup naming timeout in milliseconds"),
		flagSet.StringVarP(&options.SNMPCommunity, "community", "c", DefaultCommunity, "snmp community string"),
	)

	flagSet.CreateGroup("watch", "Watch",
		flagSet.IntVarP(&options.WatchInterval, "watch", "w", 0, "repeat the survey every N seconds (0 runs a single cycle)"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.GetVersion())
		os.Exit(0)
	}

	if options.ConfigFile != "" {
		if err := options.loadConfigFrom(options.ConfigFile); err != nil {
			gologger.Fatal().Msgf("could not load config file: %s\n", err)
		}
	}

	if options.SegmentsFile == "" && !options.AutoDiscover {
		gologger.Fatal().Msg("no input: pass -segments or -auto-discover\n")
	}

	return options
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}
