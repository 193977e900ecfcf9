package runner

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// loadConfigFrom overlays options from a json file. Only keys present in
// the file are applied, so flags keep their values otherwise.
func (options *Options) loadConfigFrom(location string) error {
	data, err := os.ReadFile(location)
	if err != nil {
		return err
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%s is not valid json", location)
	}
	cfg := gjson.ParseBytes(data)

	applyString(cfg, "segments", &options.SegmentsFile)
	applyString(cfg, "inventory", &options.InventoryPath)
	applyString(cfg, "output", &options.OutputFile)
	applyString(cfg, "community", &options.SNMPCommunity)
	applyBool(cfg, "auto_discover", &options.AutoDiscover)
	applyBool(cfg, "overwrite_segments", &options.OverwriteSegments)
	applyBool(cfg, "raw_icmp", &options.RawICMP)
	applyInt(cfg, "liveness_width", &options.LivenessWidth)
	applyInt(cfg, "enrich_width", &options.EnrichWidth)
	applyInt(cfg, "ping_timeout", &options.PingTimeout)
	applyInt(cfg, "discovery_window", &options.DiscoveryWindow)
	applyInt(cfg, "watch", &options.WatchInterval)

	probes := cfg.Get("probes")
	applyBool(probes, "no_ssh", &options.DisableSSH)
	applyBool(probes, "no_smb", &options.DisableSMB)
	applyBool(probes, "no_tls", &options.DisableTLS)
	applyBool(probes, "no_http", &options.DisableHTTP)
	applyBool(probes, "no_favicon", &options.DisableFavicon)
	applyBool(probes, "no_snmp", &options.DisableSNMP)
	applyInt(probes, "ssh_timeout", &options.SSHTimeout)
	applyInt(probes, "smb_timeout", &options.SMBTimeout)
	applyInt(probes, "tls_timeout", &options.TLSTimeout)
	applyInt(probes, "http_timeout", &options.HTTPTimeout)
	applyInt(probes, "favicon_timeout", &options.FaviconTimeout)
	applyInt(probes, "snmp_timeout", &options.SNMPTimeout)
	applyInt(probes, "name_timeout", &options.NameTimeout)

	return nil
}

func applyString(result gjson.Result, key string, target *string) {
	if v := result.Get(key); v.Exists() {
		*target = v.String()
	}
}

func applyBool(result gjson.Result, key string, target *bool) {
	if v := result.Get(key); v.Exists() {
		*target = v.Bool()
	}
}

func applyInt(result gjson.Result, key string, target *int) {
	if v := result.Get(key); v.Exists() {
		*target = int(v.Int())
	}
}
