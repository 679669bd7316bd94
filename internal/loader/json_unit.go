package loader

import (
	"encoding/json"

	"github.com/binderir/aidlc/internal/errs"
	"github.com/binderir/aidlc/internal/model"
)

// processJSONFile implements §4.1 "JSON unit processing": deserialize
// a precompiled BinderDef or ParcelableDef and fabricate an already-compiled
// Unit for it.
func (l *Loader) processJSONFile(wantQName, pkg, absPath string, content []byte) (*Unit, error) {
	var probe struct {
		Type model.UnitType `json:"type"`
	}
	if err := json.Unmarshal(content, &probe); err != nil {
		return nil, errs.NewParseError(absPath, err)
	}

	u := &Unit{Package: pkg, IsCompiled: true, sourcePath: absPath, contentHash: contentKey(content)}
	switch probe.Type {
	case model.UnitBinder:
		var def model.BinderDef
		if err := json.Unmarshal(content, &def); err != nil {
			return nil, errs.NewParseError(absPath, err)
		}
		u.QName = def.QName
		u.Name = lastSegment(def.QName)
		u.Type = model.UnitBinder
		u.Binder = &def
	default:
		var def model.ParcelableDef
		if err := json.Unmarshal(content, &def); err != nil {
			return nil, errs.NewParseError(absPath, err)
		}
		u.QName = def.QName
		u.Name = lastSegment(def.QName)
		u.Type = def.Type
		u.Parcelable = &def
	}
	l.Put(u)
	if u.QName == wantQName {
		return u, nil
	}
	return u, nil
}

func lastSegment(qname string) string {
	for i := len(qname) - 1; i >= 0; i-- {
		if qname[i] == '.' {
			return qname[i+1:]
		}
	}
	return qname
}
