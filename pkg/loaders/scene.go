package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

// SceneOptions controls how a scene description is turned into a scene
type SceneOptions struct {
	Width          int         // Output width, used for the camera aspect ratio
	Height         int         // Output height
	UseOctree      bool        // Build octrees for triangle meshes
	OctreeMaxLevel int         // 0 means geometry.DefaultOctreeMaxLevel
	Logger         core.Logger // Receives warnings; nil discards them
}

// sceneParser carries the state shared while walking one scene document
type sceneParser struct {
	baseDir   string
	options   SceneOptions
	logger    core.Logger
	materials []*material.Material
	meshes    map[string]*OBJData // OBJ files already read, by path
	images    map[string]*ImageData
}

// LoadScene reads a JSON scene file. Relative OBJ and texture paths resolve
// against the scene file's directory.
func LoadScene(path string, options SceneOptions) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseScene(file, filepath.Dir(path), options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScene builds a scene from a JSON description. Any malformed element
// aborts the load with an error naming the element.
func ParseScene(reader io.Reader, baseDir string, options SceneOptions) (*scene.Scene, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid scene JSON: %w", err)
	}
	root, err := newSceneObject("", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid scene JSON: %w", err)
	}

	logger := options.Logger
	if logger == nil {
		logger = renderer.NopLogger{}
	}
	p := &sceneParser{
		baseDir: baseDir,
		options: options,
		logger:  logger,
		meshes:  make(map[string]*OBJData),
		images:  make(map[string]*ImageData),
	}

	cameraData, err := root.child("Camera")
	if err != nil {
		return nil, err
	}
	camera, err := p.parseCamera(cameraData)
	if err != nil {
		return nil, err
	}

	sceneLights, err := p.parseLights(root)
	if err != nil {
		return nil, err
	}

	backgroundData, err := root.child("Background")
	if err != nil {
		return nil, err
	}
	background, err := backgroundData.vec3("color")
	if err != nil {
		return nil, err
	}
	ambient, err := backgroundData.vec3Default("ambientLight", core.Vec3{})
	if err != nil {
		return nil, err
	}

	if err := p.parseMaterials(root); err != nil {
		return nil, err
	}

	if !root.has("Group") {
		return nil, root.missing("Group")
	}
	group, err := p.parseGroup(root, "Group")
	if err != nil {
		return nil, err
	}

	return scene.NewScene(camera, sceneLights, background, ambient, p.materials, group, logger), nil
}

func (p *sceneParser) parseCamera(data sceneObject) (renderer.Camera, error) {
	cameraType, err := data.text("type")
	if err != nil {
		return nil, err
	}
	center, err := data.vec3("center")
	if err != nil {
		return nil, err
	}
	direction, err := data.vec3("direction")
	if err != nil {
		return nil, err
	}
	up, err := data.vec3("up")
	if err != nil {
		return nil, err
	}
	angle, err := data.number("angle")
	if err != nil {
		return nil, err
	}
	fieldOfView := core.DegreesToRadians(angle)

	switch cameraType {
	case "PerspectiveCamera":
		return renderer.NewPerspectiveCamera(center, direction, up, fieldOfView, p.options.Width, p.options.Height), nil
	case "ThinLensCamera":
		aperture, err := data.number("aperture")
		if err != nil {
			return nil, err
		}
		focalDistance, err := data.number("focalDistance")
		if err != nil {
			return nil, err
		}
		return renderer.NewThinLensCamera(center, direction, up, fieldOfView,
			p.options.Width, p.options.Height, aperture, focalDistance), nil
	default:
		return nil, fmt.Errorf("%s: camera %q: %w", data.path, cameraType, ErrUnknownType)
	}
}

func (p *sceneParser) parseLights(root sceneObject) ([]lights.Light, error) {
	items, err := root.list("Lights")
	if err != nil {
		return nil, err
	}

	sceneLights := make([]lights.Light, 0, len(items))
	for _, data := range items {
		light, err := p.parseLight(data)
		if err != nil {
			return nil, err
		}
		sceneLights = append(sceneLights, light)
	}
	return sceneLights, nil
}

func (p *sceneParser) parseLight(data sceneObject) (lights.Light, error) {
	lightType, err := data.text("type")
	if err != nil {
		return nil, err
	}
	color, err := data.vec3("color")
	if err != nil {
		return nil, err
	}

	switch lightType {
	case "PointLight":
		position, err := data.vec3("position")
		if err != nil {
			return nil, err
		}
		falloff, err := data.vec3Default("attenuation", core.Vec3{})
		if err != nil {
			return nil, err
		}
		light := lights.NewPointLight(position, color)
		light.Attenuation = lights.Attenuation{Constant: falloff.X, Linear: falloff.Y, Quadratic: falloff.Z}
		return light, nil
	case "DirectionalLight":
		direction, err := data.vec3("direction")
		if err != nil {
			return nil, err
		}
		return lights.NewDirectionalLight(direction, color), nil
	default:
		return nil, fmt.Errorf("%s: light %q: %w", data.path, lightType, ErrUnknownType)
	}
}

func (p *sceneParser) parseMaterials(root sceneObject) error {
	items, err := root.list("Materials")
	if err != nil {
		return err
	}

	for _, data := range items {
		diffuse, err := data.vec3Default("diffuseColor", core.NewVec3(1, 1, 1))
		if err != nil {
			return err
		}
		specular, err := data.vec3Default("specularColor", core.Vec3{})
		if err != nil {
			return err
		}
		shininess, err := data.numberDefault("shininess", 0)
		if err != nil {
			return err
		}

		mat := material.NewMaterial(diffuse, specular, shininess)
		if data.has("texture") {
			name, err := data.text("texture")
			if err != nil {
				return err
			}
			image, err := p.loadImage(name)
			if err != nil {
				return fmt.Errorf("%s: %w", data.fieldPath("texture"), err)
			}
			mat.SetTexture(image.Texture())
		}
		p.materials = append(p.materials, mat)
	}
	return nil
}

// parseGroup reads the object list stored under key
func (p *sceneParser) parseGroup(parent sceneObject, key string) (*geometry.Group, error) {
	items, err := parent.list(key)
	if err != nil {
		return nil, err
	}

	group := geometry.NewGroup()
	for _, data := range items {
		objectType, err := data.text("type")
		if err != nil {
			return nil, err
		}

		if !data.has("materialIndex") {
			if objectType != "Group" {
				return nil, data.missing("materialIndex")
			}
			nested, err := p.parseGroup(data, "Group")
			if err != nil {
				return nil, err
			}
			group.Add(nested)
			continue
		}

		mat, err := p.material(data)
		if err != nil {
			return nil, err
		}
		object, err := p.parseObject(objectType, data, mat)
		if err != nil {
			return nil, err
		}
		group.Add(object)
	}
	return group, nil
}

func (p *sceneParser) material(data sceneObject) (*material.Material, error) {
	index, err := data.integer("materialIndex")
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.materials) {
		return nil, fmt.Errorf("%s: material %d of %d: %w",
			data.fieldPath("materialIndex"), index, len(p.materials), ErrInvalidIndex)
	}
	return p.materials[index], nil
}

// parseObject builds a primitive; transforms pass their material to the
// object they wrap
func (p *sceneParser) parseObject(objectType string, data sceneObject, mat *material.Material) (geometry.Intersectable, error) {
	switch objectType {
	case "Plane":
		normal, err := data.vec3("normal")
		if err != nil {
			return nil, err
		}
		offset, err := data.number("offset")
		if err != nil {
			return nil, err
		}
		return geometry.NewPlane(normal, offset, mat), nil
	case "Sphere":
		center, err := data.vec3("center")
		if err != nil {
			return nil, err
		}
		radius, err := data.number("radius")
		if err != nil {
			return nil, err
		}
		return geometry.NewSphere(center, radius, mat), nil
	case "TriangleMesh":
		return p.parseTriangleMesh(data, mat)
	case "Transform":
		return p.parseTransform(data, mat)
	default:
		return nil, fmt.Errorf("%s: object %q: %w", data.path, objectType, ErrUnknownType)
	}
}

func (p *sceneParser) parseTriangleMesh(data sceneObject, mat *material.Material) (geometry.Intersectable, error) {
	name, err := data.text("objFile")
	if err != nil {
		return nil, err
	}
	smooth, err := data.boolDefault("smooth", true)
	if err != nil {
		return nil, err
	}

	obj, err := p.loadOBJ(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", data.fieldPath("objFile"), err)
	}

	options := &geometry.TriangleMeshOptions{
		UseOctree: p.options.UseOctree,
		MaxLevel:  p.options.OctreeMaxLevel,
	}
	mesh := NewMeshFromOBJ(obj, mat, smooth, options)
	if octree := mesh.Octree(); octree != nil {
		stats := octree.Stats()
		p.logger.Printf("Mesh %s: %d triangles, octree of %d nodes (%d leaves, depth %d)\n",
			name, mesh.TriangleCount(), stats.Nodes, stats.Leaves, stats.MaxDepth)
	}
	return mesh, nil
}

func (p *sceneParser) parseTransform(data sceneObject, mat *material.Material) (geometry.Intersectable, error) {
	ops, err := data.textList("transforms")
	if err != nil {
		return nil, err
	}
	m, err := ParseTransformList(ops)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", data.fieldPath("transforms"), err)
	}

	transformed, err := data.child("transformed")
	if err != nil {
		return nil, err
	}
	objectType, err := transformed.text("type")
	if err != nil {
		return nil, err
	}
	child, err := p.parseObject(objectType, transformed, mat)
	if err != nil {
		return nil, err
	}

	transform := geometry.NewTransform(child, m)
	if !transform.Invertible() {
		p.logger.Printf("Warning: %s has a singular matrix and will never be hit\n", data.path)
	}
	return transform, nil
}

// ParseTransformList composes transform statements such as "translate 1 0 0"
// or "yRotate 45" (angles in degrees). Each statement multiplies on the
// right, so the last statement is applied to the object first.
func ParseTransformList(ops []string) (core.Mat4, error) {
	m := core.Identity()
	for i, op := range ops {
		fields := strings.Fields(op)
		if len(fields) == 0 {
			return core.Mat4{}, fmt.Errorf("[%d]: empty transform: %w", i, ErrMissingField)
		}
		values, err := parseFloatFields(fields[1:])
		if err != nil {
			return core.Mat4{}, fmt.Errorf("[%d] %s: %w", i, fields[0], err)
		}

		next, err := transformMatrix(fields[0], values)
		if err != nil {
			return core.Mat4{}, fmt.Errorf("[%d]: %w", i, err)
		}
		m = m.Mul(next)
	}
	return m, nil
}

func transformMatrix(name string, values []float64) (core.Mat4, error) {
	want := map[string]int{
		"scale": 3, "uniformScale": 1, "translate": 3,
		"xRotate": 1, "yRotate": 1, "zRotate": 1, "rotate": 4,
	}
	count, ok := want[name]
	if !ok {
		return core.Mat4{}, fmt.Errorf("transform %q: %w", name, ErrUnknownType)
	}
	if len(values) != count {
		return core.Mat4{}, fmt.Errorf("%s expects %d values, got %d: %w", name, count, len(values), ErrMissingField)
	}

	switch name {
	case "scale":
		return core.Scaling(values[0], values[1], values[2]), nil
	case "uniformScale":
		return core.UniformScaling(values[0]), nil
	case "translate":
		return core.Translation(values[0], values[1], values[2]), nil
	case "xRotate":
		return core.RotationX(core.DegreesToRadians(values[0])), nil
	case "yRotate":
		return core.RotationY(core.DegreesToRadians(values[0])), nil
	case "zRotate":
		return core.RotationZ(core.DegreesToRadians(values[0])), nil
	default: // rotate
		axis := core.NewVec3(values[0], values[1], values[2])
		if axis.Length() == 0 {
			return core.Mat4{}, fmt.Errorf("rotate axis is zero: %w", ErrInvalidNumber)
		}
		return core.Rotation(axis, core.DegreesToRadians(values[3])), nil
	}
}

// resolvePath makes name relative to the scene directory unless it is absolute
func (p *sceneParser) resolvePath(name string) string {
	if filepath.IsAbs(name) || p.baseDir == "" {
		return name
	}
	return filepath.Join(p.baseDir, name)
}

// loadOBJ reads each mesh file once per scene. A name without an extension
// gets ".obj" appended.
func (p *sceneParser) loadOBJ(name string) (*OBJData, error) {
	if filepath.Ext(name) == "" {
		name += ".obj"
	}
	path := p.resolvePath(name)
	if obj, ok := p.meshes[path]; ok {
		return obj, nil
	}

	obj, err := LoadOBJ(path)
	if err != nil {
		return nil, err
	}
	for _, keyword := range obj.UnknownKeywords {
		p.logger.Printf("Warning: unknown keyword %q in %s skipped\n", keyword, path)
	}
	p.meshes[path] = obj
	return obj, nil
}

func (p *sceneParser) loadImage(name string) (*ImageData, error) {
	path := p.resolvePath(name)
	if image, ok := p.images[path]; ok {
		return image, nil
	}

	image, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	p.images[path] = image
	return image, nil
}
