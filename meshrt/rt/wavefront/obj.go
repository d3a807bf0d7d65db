// Package wavefront parses the Wavefront OBJ file format (*.obj) and its
// material libraries (*.mtl) into the flat position pool, shape groups and
// ordered material list the scene compactor consumes. Only geometry and
// material statements are interpreted; everything else is reported as a
// warning.
package wavefront

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	blanks  = "\r\n\t "
	objType = "obj"
	mtlType = "mtl"

	defaultGroup = "default"
)

// Decoder contains all decoded data from an obj file and its mtl libraries.
type Decoder struct {
	Objfile        string      // .obj filename (without path)
	Objdir         string      // directory mtllib paths are resolved against
	Objects        []Object    // shape groups with at least one face, in file order
	Matlibs        []string    // material libraries named by mtllib
	Materials      []*Material // materials in newmtl declaration order
	Vertices       []float32   // position pool, xyz per vertex
	Normals        []float32   // normal pool, xyz per normal
	Uvs            []float32   // texture coordinate pool, uv per coordinate
	Warnings       []string    // warning messages
	MixedMaterials []string    // groups whose faces use more than one material

	matIndex      map[string]int
	file          string
	line          int
	objCurrent    int // index into objects, -1 before the first group
	matCurrent    int // material id of the active usemtl, -1 if none
	mtlCurrent    *Material
	smoothCurrent bool
	objects       []Object
}

// Object is one shape group: an o or g statement and the faces after it.
type Object struct {
	Name string
	// Refs holds one position index per triangle corner, three per triangle,
	// after fan triangulation.
	Refs []int
	// MaterialID is the material of the group's first face, -1 if unknown.
	MaterialID int
	Faces      int
	Smooth     bool

	mixed bool
}

// Triangles is the number of triangles in the group.
func (ob *Object) Triangles() int {
	return len(ob.Refs) / 3
}

func NewDecoder() *Decoder {
	return &Decoder{
		matIndex:   make(map[string]int),
		objCurrent: -1,
		matCurrent: -1,
	}
}

// LoadObjFile reads and decodes the obj file at path, together with any
// material library it references.
func LoadObjFile(path string) (*Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := NewDecoder()
	dec.Objdir, dec.Objfile = filepath.Split(path)
	if err := dec.Decode(f); err != nil {
		return nil, err
	}
	return dec, nil
}

// Decode reads obj statements from r. mtllib statements are loaded from
// Objdir as they are encountered.
func (dec *Decoder) Decode(r io.Reader) error {
	dec.file = dec.Objfile
	if dec.file == "" {
		dec.file = objType
	}
	if err := dec.parse(r, dec.parseObjLine); err != nil {
		return err
	}

	dec.Objects = dec.Objects[:0]
	for _, ob := range dec.objects {
		if ob.Faces == 0 {
			dec.appendWarn(objType, fmt.Sprintf("group %q has no faces; skipped", ob.Name))
			continue
		}
		if ob.mixed {
			dec.MixedMaterials = append(dec.MixedMaterials, ob.Name)
		}
		dec.Objects = append(dec.Objects, ob)
	}
	return nil
}

// MaterialByName returns the id of a declared material.
func (dec *Decoder) MaterialByName(name string) (int, bool) {
	id, ok := dec.matIndex[name]
	return id, ok
}

// parse reads the lines from the reader and dispatches them to parseLine.
func (dec *Decoder) parse(r io.Reader, parseLine func(string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	dec.line = 0
	for scanner.Scan() {
		dec.line++
		line := strings.Trim(scanner.Text(), blanks)
		if err := parseLine(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s:%d: %w", dec.file, dec.line, err)
	}
	return nil
}

// Parses obj file line, dispatching to specific parsers
func (dec *Decoder) parseObjLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	ltype := fields[0]
	if strings.HasPrefix(ltype, "#") {
		return nil
	}
	switch ltype {
	case "mtllib":
		return dec.parseMatlib(fields[1:])
	// Groups and objects both start a new shape group.
	case "o", "g":
		return dec.parseObject(fields[1:])
	case "v":
		return dec.parseFloats(fields[1:], 3, &dec.Vertices, "v")
	case "vn":
		return dec.parseFloats(fields[1:], 3, &dec.Normals, "vn")
	case "vt":
		return dec.parseFloats(fields[1:], 2, &dec.Uvs, "vt")
	case "f":
		return dec.parseFace(fields[1:])
	case "usemtl":
		return dec.parseUsemtl(fields[1:])
	case "s":
		return dec.parseSmooth(fields[1:])
	default:
		dec.appendWarn(objType, "field not supported: "+ltype)
	}
	return nil
}

// Parses a mtllib line and loads each library it names:
// mtllib <name> [<name> ...]
func (dec *Decoder) parseMatlib(fields []string) error {
	if len(fields) < 1 {
		return dec.formatError("mtllib with no fields")
	}
	for _, name := range fields {
		dec.Matlibs = append(dec.Matlibs, name)
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dec.Objdir, name)
		}
		if err := dec.loadMtlFile(path); err != nil {
			return err
		}
	}
	return nil
}

// Parses an object or group line:
// o <name>
func (dec *Decoder) parseObject(fields []string) error {
	name := strings.Join(fields, " ")
	if name == "" {
		name = fmt.Sprintf("unnamed%d", dec.line)
	}
	dec.startObject(name)
	return nil
}

func (dec *Decoder) startObject(name string) {
	dec.objects = append(dec.objects, Object{
		Name:       name,
		MaterialID: dec.matCurrent,
		Smooth:     dec.smoothCurrent,
	})
	dec.objCurrent = len(dec.objects) - 1
}

// parseFloats appends the first n values of a vertex attribute line to pool.
func (dec *Decoder) parseFloats(fields []string, n int, pool *[]float32, ltype string) error {
	if len(fields) < n {
		return dec.formatError(fmt.Sprintf("'%s' with less than %d fields", ltype, n))
	}
	for _, f := range fields[:n] {
		val, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return dec.wrapError(fmt.Sprintf("'%s' value %q", ltype, f), err)
		}
		*pool = append(*pool, float32(val))
	}
	return nil
}

// parseFace parses a face description line and fan-triangulates it:
// f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (dec *Decoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return dec.formatError("face line with less than 3 vertices")
	}
	if dec.objCurrent < 0 {
		// Faces before any o or g statement land in an implicit group.
		dec.startObject(defaultGroup)
	}

	corners := make([]int, len(fields))
	for pos, f := range fields {
		vfields := strings.Split(f, "/")
		idx, err := dec.resolveIndex(vfields[0], len(dec.Vertices)/3, "vertex")
		if err != nil {
			return err
		}
		corners[pos] = idx

		// Texture and normal references are validated but not kept.
		if len(vfields) > 1 && vfields[1] != "" {
			if _, err := dec.resolveIndex(vfields[1], len(dec.Uvs)/2, "uv"); err != nil {
				return err
			}
		}
		if len(vfields) > 2 && vfields[2] != "" {
			if _, err := dec.resolveIndex(vfields[2], len(dec.Normals)/3, "normal"); err != nil {
				return err
			}
		}
	}

	ob := &dec.objects[dec.objCurrent]
	if ob.Faces == 0 {
		ob.MaterialID = dec.matCurrent
	} else if ob.MaterialID != dec.matCurrent {
		ob.mixed = true
	}
	ob.Faces++
	for i := 1; i+1 < len(corners); i++ {
		ob.Refs = append(ob.Refs, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// resolveIndex converts a 1-based or negative (relative) obj index into a
// 0-based index into a pool of count elements.
func (dec *Decoder) resolveIndex(field string, count int, kind string) (int, error) {
	val, err := strconv.Atoi(field)
	if err != nil {
		return 0, dec.wrapError(fmt.Sprintf("face %s index %q", kind, field), err)
	}
	var idx int
	switch {
	case val > 0:
		idx = val - 1
	case val < 0:
		idx = count + val
	default:
		return 0, dec.formatError(fmt.Sprintf("face %s index value equal to 0", kind))
	}
	if idx < 0 || idx >= count {
		return 0, dec.formatError(fmt.Sprintf("face %s index %d out of range (%d defined)", kind, val, count))
	}
	return idx, nil
}

// parseUsemtl parses a "usemtl" description line:
// usemtl <name>
func (dec *Decoder) parseUsemtl(fields []string) error {
	if len(fields) < 1 {
		return dec.formatError("usemtl with no fields")
	}
	name := fields[0]
	id, ok := dec.matIndex[name]
	if !ok {
		dec.appendWarn(objType, fmt.Sprintf("unknown material %q", name))
		id = -1
	}
	dec.matCurrent = id
	return nil
}

// parseSmooth parses a "s" description line:
// s <0|1|off|on|group>
func (dec *Decoder) parseSmooth(fields []string) error {
	if len(fields) < 1 {
		return dec.formatError("'s' with no fields")
	}
	dec.smoothCurrent = fields[0] != "0" && fields[0] != "off"
	if dec.objCurrent >= 0 {
		dec.objects[dec.objCurrent].Smooth = dec.smoothCurrent
	}
	return nil
}

func (dec *Decoder) formatError(msg string) error {
	return fmt.Errorf("%s:%d: %s", dec.file, dec.line, msg)
}

func (dec *Decoder) wrapError(msg string, err error) error {
	return fmt.Errorf("%s:%d: %s: %w", dec.file, dec.line, msg, err)
}

func (dec *Decoder) appendWarn(ftype string, msg string) {
	dec.Warnings = append(dec.Warnings, fmt.Sprintf("%s(%s:%d): %s", ftype, dec.file, dec.line, msg))
}
