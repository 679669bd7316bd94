package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/binderir/aidlc/internal/errs"
	"github.com/binderir/aidlc/internal/grammar"
	"github.com/binderir/aidlc/internal/model"
)

// processAIDLFile implements §4.1 "AIDL unit processing": parse the
// file, enumerate every interface/parcelable declaration, register each as a
// Unit keyed by package.Name, and — for a body-less parcelable — eagerly
// resolve the sibling .java file under the same QName.
func (l *Loader) processAIDLFile(wantQName, pkg, absPath string, content []byte) (*Unit, error) {
	file, err := grammar.ParseAIDL(string(content))
	if err != nil {
		return nil, errs.NewParseError(absPath, err)
	}

	filePkg := pkg
	if file.Package != "" {
		filePkg = file.Package
	}

	var rawImports []string
	for _, imp := range file.Imports {
		rawImports = append(rawImports, imp.QName)
	}

	var want *Unit
	for _, iface := range file.Interfaces {
		qname := joinQName(filePkg, iface.Name)
		ifaceCopy := iface
		u := &Unit{
			QName:         qname,
			Package:       filePkg,
			Name:          iface.Name,
			Type:          model.UnitBinder,
			AIDLInterface: &ifaceCopy,
			RawImports:    rawImports,
			sourcePath:    absPath,
			contentHash:   contentKey(content),
		}
		l.Put(u)
		if qname == wantQName {
			want = u
		}
	}
	for _, pc := range file.Parcelables {
		qname := joinQName(filePkg, pc.Name)
		var u *Unit
		if pc.HasBody {
			pcCopy := pc
			u = &Unit{
				QName:              qname,
				Package:            filePkg,
				Name:               pc.Name,
				Type:               model.UnitParcelable,
				AIDLParcelableBody: &pcCopy,
				RawImports:         rawImports,
				sourcePath:         absPath,
				contentHash:        contentKey(content),
			}
		} else {
			u = &Unit{
				QName:       qname,
				Package:     filePkg,
				Name:        pc.Name,
				Type:        model.UnitParcelableJava,
				RawImports:  rawImports,
				sourcePath:  absPath,
				contentHash: contentKey(content),
			}
			l.resolveJavaSibling(u, absPath)
		}
		l.Put(u)
		if qname == wantQName {
			want = u
		}
	}
	return want, nil
}

// resolveJavaSibling eagerly loads the .java file with the same base name as
// an AIDL body-less `parcelable Name;` declaration, per §4.1: "the Java
// loader must cache the parcelable unit under the same QName".
func (l *Loader) resolveJavaSibling(u *Unit, aidlPath string) {
	javaPath := strings.TrimSuffix(aidlPath, filepath.Ext(aidlPath)) + ".java"
	data, err := os.ReadFile(javaPath)
	if err != nil {
		return
	}
	javaFile, err := grammar.ParseJava(data)
	if err != nil {
		return
	}
	class := javaFile.ClassByName(u.Name)
	if class == nil {
		// Last-resort fallback: a phantom unit with only the class name so
		// later lookups do not fail catastrophically (§4.1 "Java unit
		// processing").
		return
	}
	u.JavaClass = &JavaClassRef{File: javaFile, Node: class}
}

func joinQName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
