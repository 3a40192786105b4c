package main

import (
	"strings"

	"csv2xml/internal/platform/config"
	"csv2xml/internal/services/convert/domain"
)

// watchOptions reads the conversion settings for the drop directory from
// the WATCH_ keys of cfg
func watchOptions(cfg config.Conf) domain.Options {
	w := cfg.Prefix("WATCH_")
	def := domain.DefaultOptions()
	return domain.Options{
		Delimiter:  string(w.MayChar("DELIMITER", def.Delimiter[0])),
		Root:       w.MayString("ROOT", def.Root),
		Record:     w.MayString("RECORD", def.Record),
		Extensions: w.MayString("EXTENSIONS", def.Extensions),
		Indent:     strings.Repeat(" ", max(w.MayInt("INDENT_WIDTH", len(def.Indent)), 0)),
		Strict:     w.MayBool("STRICT", false),
		LazyQuotes: w.MayBool("LAZY_QUOTES", false),
		TrimSpace:  w.MayBool("TRIM_SPACE", false),
		RepairTags: w.MayBool("REPAIR_TAGS", false),
		XMLHeader:  w.MayBool("XML_HEADER", true),
	}
}
