package wavefront

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Material contains the statements of one newmtl block.
type Material struct {
	Name       string     // Material name
	Illum      int        // Illumination model
	Opacity    float32    // Dissolve factor
	Refraction float32    // Index of refraction
	Shininess  float32    // Specular exponent
	Roughness  float32    // PBR roughness (Pr)
	Ambient    mgl32.Vec3 // Ambient color reflectivity
	Diffuse    mgl32.Vec3 // Diffuse color reflectivity
	Specular   mgl32.Vec3 // Specular color reflectivity
	Emissive   mgl32.Vec3 // Emissive color
	MapKd      string     // Texture file linked to diffuse color
}

func newMaterial(name string) *Material {
	return &Material{
		Name:       name,
		Opacity:    1,
		Refraction: 1,
	}
}

// loadMtlFile decodes the library at path. A missing library is not fatal:
// the obj still loads and usemtl statements naming its materials resolve to -1.
func (dec *Decoder) loadMtlFile(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		dec.appendWarn(mtlType, fmt.Sprintf("material library %q not found", path))
		return nil
	}
	if err != nil {
		return dec.wrapError("open material library", err)
	}
	defer f.Close()
	return dec.DecodeMtl(f, path)
}

// DecodeMtl reads mtl statements from r. name is used in messages only.
func (dec *Decoder) DecodeMtl(r io.Reader, name string) error {
	file, line := dec.file, dec.line
	defer func() { dec.file, dec.line = file, line }()

	dec.file = name
	dec.mtlCurrent = nil
	if dec.matIndex == nil {
		dec.matIndex = make(map[string]int)
	}
	return dec.parse(r, dec.parseMtlLine)
}

// Parses material file line, dispatching to specific parsers
func (dec *Decoder) parseMtlLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	ltype := fields[0]
	if strings.HasPrefix(ltype, "#") {
		return nil
	}
	if ltype == "newmtl" {
		return dec.parseNewmtl(fields[1:])
	}
	if dec.mtlCurrent == nil {
		return dec.formatError(fmt.Sprintf("'%s' before newmtl", ltype))
	}

	mat := dec.mtlCurrent
	switch ltype {
	case "Ka":
		return dec.parseColor(fields[1:], ltype, &mat.Ambient)
	case "Kd":
		return dec.parseColor(fields[1:], ltype, &mat.Diffuse)
	case "Ke":
		return dec.parseColor(fields[1:], ltype, &mat.Emissive)
	case "Ks":
		return dec.parseColor(fields[1:], ltype, &mat.Specular)
	case "d":
		return dec.parseScalar(fields[1:], ltype, &mat.Opacity)
	case "Tr":
		var tr float32
		if err := dec.parseScalar(fields[1:], ltype, &tr); err != nil {
			return err
		}
		mat.Opacity = 1 - tr
		return nil
	case "Ni":
		return dec.parseScalar(fields[1:], ltype, &mat.Refraction)
	case "Ns":
		return dec.parseScalar(fields[1:], ltype, &mat.Shininess)
	case "Pr":
		return dec.parseScalar(fields[1:], ltype, &mat.Roughness)
	case "illum":
		if len(fields) < 2 {
			return dec.formatError("'illum' with no fields")
		}
		val, err := strconv.Atoi(fields[1])
		if err != nil {
			return dec.wrapError("'illum' value", err)
		}
		mat.Illum = val
		return nil
	case "map_Kd":
		if len(fields) < 2 {
			return dec.formatError("'map_Kd' with no fields")
		}
		// Options precede the file name, which is always last.
		mat.MapKd = fields[len(fields)-1]
		return nil
	default:
		dec.appendWarn(mtlType, "field not supported: "+ltype)
	}
	return nil
}

// Parses new material definition
// newmtl <mat_name>
func (dec *Decoder) parseNewmtl(fields []string) error {
	if len(fields) < 1 {
		return dec.formatError("newmtl with no fields")
	}
	name := fields[0]
	if id, ok := dec.matIndex[name]; ok {
		dec.appendWarn(mtlType, fmt.Sprintf("material %q redefined", name))
		dec.mtlCurrent = dec.Materials[id]
		return nil
	}
	mat := newMaterial(name)
	dec.matIndex[name] = len(dec.Materials)
	dec.Materials = append(dec.Materials, mat)
	dec.mtlCurrent = mat
	return nil
}

// Parses a color statement:
// K? r g b
func (dec *Decoder) parseColor(fields []string, ltype string, dst *mgl32.Vec3) error {
	if len(fields) < 3 {
		return dec.formatError(fmt.Sprintf("'%s' with less than 3 fields", ltype))
	}
	var c mgl32.Vec3
	for pos, f := range fields[:3] {
		val, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return dec.wrapError(fmt.Sprintf("'%s' value %q", ltype, f), err)
		}
		c[pos] = float32(val)
	}
	*dst = c
	return nil
}

func (dec *Decoder) parseScalar(fields []string, ltype string, dst *float32) error {
	if len(fields) < 1 {
		return dec.formatError(fmt.Sprintf("'%s' with no fields", ltype))
	}
	val, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return dec.wrapError(fmt.Sprintf("'%s' value %q", ltype, fields[0]), err)
	}
	*dst = float32(val)
	return nil
}
