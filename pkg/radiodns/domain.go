package radiodns

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// Identifier limits.
const (
	maxFMFrequency = 99999
	max4Bit        = 0xF
	max8Bit        = 0xFF
	max10Bit       = 1023
	max12Bit       = 0xFFF
	max16Bit       = 0xFFFF
	max20Bit       = 0xFFFFF
	max24Bit       = 0xFFFFFF
)

// FMDomain returns the source domain of a VHF/FM service.
//
// freq is in units of 10kHz (95.8MHz is 9580). country is either a two
// character ISO 3166 country code or the three hex digit RDS ECC.
func FMDomain(freq, pi uint32, country, suffix string) (string, error) {
	const op = "fm"

	suffix, err := checkSuffix(op, suffix, DefaultSuffix)
	if err != nil {
		return "", err
	}
	if err := checkCountry(op, country); err != nil {
		return "", err
	}
	if freq > maxFMFrequency {
		return "", fieldRange(op, "frequency", freq, maxFMFrequency)
	}
	if pi > max16Bit {
		return "", fieldRange(op, "pi", pi, max16Bit)
	}
	return fmt.Sprintf("%05d.%04x.%s.fm.%s", freq, pi, country, suffix), nil
}

// DABDomain returns the source domain of a DAB service delivered neither
// via X-PAD nor an independent service component.
func DABDomain(scids, sid, eid, ecc uint32, suffix string) (string, error) {
	const op = "dab"

	suffix, err := checkSuffix(op, suffix, DefaultSuffix)
	if err != nil {
		return "", err
	}
	ids, err := dabIdentifiers(op, scids, sid, eid, ecc)
	if err != nil {
		return "", err
	}
	return ids + ".dab." + suffix, nil
}

// DABSCDomain returns the source domain of a DAB service delivered via an
// independent service component addressed by packet address pa.
func DABSCDomain(pa, scids, sid, eid, ecc uint32, suffix string) (string, error) {
	const op = "dab-sc"

	suffix, err := checkSuffix(op, suffix, DefaultSuffix)
	if err != nil {
		return "", err
	}
	if pa > max10Bit {
		return "", fieldRange(op, "pa", pa, max10Bit)
	}
	ids, err := dabIdentifiers(op, scids, sid, eid, ecc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d.%s.dab.%s", pa, ids, suffix), nil
}

// DABXPADDomain returns the source domain of a DAB service delivered via
// X-PAD with the given application type and user application type.
func DABXPADDomain(appType, uaType, scids, sid, eid, ecc uint32, suffix string) (string, error) {
	const op = "dab-xpad"

	suffix, err := checkSuffix(op, suffix, DefaultSuffix)
	if err != nil {
		return "", err
	}
	if appType > max8Bit {
		return "", fieldRange(op, "apptype", appType, max8Bit)
	}
	if uaType > max12Bit {
		return "", fieldRange(op, "uatype", uaType, max12Bit)
	}
	ids, err := dabIdentifiers(op, scids, sid, eid, ecc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02x-%03x.%s.dab.%s", appType, uaType, ids, suffix), nil
}

// DRMDomain returns the source domain of a DRM service.
func DRMDomain(sid uint32, suffix string) (string, error) {
	return serviceIDDomain("drm", sid, suffix)
}

// AMSSDomain returns the source domain of an AMSS service.
func AMSSDomain(sid uint32, suffix string) (string, error) {
	return serviceIDDomain("amss", sid, suffix)
}

// HDRadioDomain returns the source domain of an HD Radio service.
func HDRadioDomain(tx, cc uint32, suffix string) (string, error) {
	const op = "hd"

	suffix, err := checkSuffix(op, suffix, DefaultSuffix)
	if err != nil {
		return "", err
	}
	if tx > max20Bit {
		return "", fieldRange(op, "tx", tx, max20Bit)
	}
	if cc > max12Bit {
		return "", fieldRange(op, "cc", cc, max12Bit)
	}
	return fmt.Sprintf("%05x.%03x.hd.%s", tx, cc, suffix), nil
}

// DVBDomain returns the source domain of a DVB service. The labels are
// ordered nid, sid, tsid, onid.
func DVBDomain(onid, tsid, sid, nid uint32, suffix string) (string, error) {
	const op = "dvb"

	suffix, err := checkSuffix(op, suffix, DefaultDVBSuffix)
	if err != nil {
		return "", err
	}
	for _, f := range []struct {
		name  string
		value uint32
	}{
		{"onid", onid},
		{"tsid", tsid},
		{"sid", sid},
		{"nid", nid},
	} {
		if f.value > max16Bit {
			return "", fieldRange(op, f.name, f.value, max16Bit)
		}
	}
	return fmt.Sprintf("%04x.%04x.%04x.%04x.dvb.%s", nid, sid, tsid, onid, suffix), nil
}

func serviceIDDomain(op string, sid uint32, suffix string) (string, error) {
	suffix, err := checkSuffix(op, suffix, DefaultSuffix)
	if err != nil {
		return "", err
	}
	if sid > max24Bit {
		return "", fieldRange(op, "sid", sid, max24Bit)
	}
	return fmt.Sprintf("%06x.%s.%s", sid, op, suffix), nil
}

// dabIdentifiers renders "<scids>.<sid>.<eid>.<ecc>". Short SCIdS and SId
// values use the compact forms.
func dabIdentifiers(op string, scids, sid, eid, ecc uint32) (string, error) {
	if scids > max12Bit {
		return "", fieldRange(op, "scids", scids, max12Bit)
	}
	if sid > max24Bit {
		return "", fieldRange(op, "sid", sid, max24Bit)
	}
	if eid > max16Bit {
		return "", fieldRange(op, "eid", eid, max16Bit)
	}
	if ecc > max12Bit {
		return "", fieldRange(op, "ecc", ecc, max12Bit)
	}

	scFormat := "%03x"
	if scids <= max4Bit {
		scFormat = "%x"
	}
	sidFormat := "%08x"
	if sid <= max16Bit {
		sidFormat = "%04x"
	}
	return fmt.Sprintf(scFormat+"."+sidFormat+".%04x.%03x", scids, sid, eid, ecc), nil
}

// checkSuffix applies the default, strips surrounding dots and rejects
// suffixes that leave no room for the identifier labels.
func checkSuffix(op, suffix, def string) (string, error) {
	if suffix == "" {
		suffix = def
	}
	suffix = strings.TrimLeft(suffix, ".")
	suffix = strings.TrimSuffix(suffix, ".")
	if len(suffix) > MaxDomainLength-MaxPrefixLength {
		return "", NewValidationError(op, "suffix", ErrSuffixTooLong)
	}
	if _, ok := dns.IsDomainName(suffix); !ok || suffix == "" {
		return "", NewValidationError(op, "suffix", fmt.Errorf("%w: %q", ErrInvalidDomain, suffix))
	}
	return suffix, nil
}

// checkCountry accepts two ASCII characters or three hex digits.
func checkCountry(op, country string) error {
	switch len(country) {
	case 2:
		for i := 0; i < len(country); i++ {
			if country[i] >= 0x80 || country[i] == '.' {
				return NewValidationError(op, "country", fmt.Errorf("%w: %q", ErrCountryCode, country))
			}
		}
		return nil
	case 3:
		for i := 0; i < len(country); i++ {
			if !isHexDigit(country[i]) {
				return NewValidationError(op, "country", fmt.Errorf("%w: %q", ErrCountryCode, country))
			}
		}
		return nil
	default:
		return NewValidationError(op, "country", fmt.Errorf("%w: %q", ErrCountryCode, country))
	}
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
