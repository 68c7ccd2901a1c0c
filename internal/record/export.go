package record

import (
	"strconv"
	"time"

	"github.com/youruser/casecard/internal/util"
)

// ShareText is the caption sent with a card and encoded in its QR badge.
func ShareText(r Record) string {
	name := r.Name()
	if name == "" {
		return "Suspect information"
	}
	return "Suspect information: " + name
}

// FileName returns "card_<name>_<unix millis><ext>" with the name made safe
// for file systems.
func FileName(r Record, at time.Time, ext string) string {
	name := util.SafeName(r.Name())
	if name == "" {
		name = "unknown"
	}
	return "card_" + name + "_" + strconv.FormatInt(at.UnixMilli(), 10) + ext
}
