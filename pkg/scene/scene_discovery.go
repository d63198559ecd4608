package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scene types reported by discovery
const (
	TypeBuiltin = "builtin"
	TypeJSON    = "json"
)

const builtinGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// BuiltinConstructor builds a built-in scene for an image size
type BuiltinConstructor func(width, height int, useOctree bool) *Scene

type builtinScene struct {
	info   SceneInfo
	create BuiltinConstructor
}

var builtinScenes = []builtinScene{
	{newBuiltinInfo("plane", "Plane", "Infinite ground plane under a directional light"), NewPlaneScene},
	{newBuiltinInfo("sphere", "Sphere", "A single diffuse sphere"), NewSphereScene},
	{newBuiltinInfo("shine", "Shine", "Spheres of increasing shininess over a plane"), NewShineScene},
	{newBuiltinInfo("cube", "Cube", "Transformed triangle-mesh cube and icosahedron"), NewCubeScene},
	{newBuiltinInfo("axes", "Axes", "Ellipsoids stretched along the coordinate axes"), NewAxesScene},
	{newBuiltinInfo("spheregrid", "Sphere Grid", "Grid of colored spheres in nested groups"), NewSphereGridScene},
}

func newBuiltinInfo(id, name, description string) SceneInfo {
	return SceneInfo{
		ID:          id,
		Name:        name,
		DisplayName: name,
		Description: description,
		Group:       builtinGroup,
		Type:        TypeBuiltin,
	}
}

// BuiltinSceneIDs returns the ids of the built-in scenes in display order
func BuiltinSceneIDs() []string {
	ids := make([]string, len(builtinScenes))
	for i, b := range builtinScenes {
		ids[i] = b.info.ID
	}
	return ids
}

// NewBuiltinScene creates the built-in scene with the given id
func NewBuiltinScene(id string, width, height int, useOctree bool) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.create(width, height, useOctree), nil
		}
	}
	return nil, fmt.Errorf("unknown built-in scene %q", id)
}

// sceneMetadata is the optional "Metadata" block of a JSON scene file
type sceneMetadata struct {
	Metadata struct {
		Name        string `json:"name"`
		Variant     string `json:"variant"`
		Description string `json:"description"`
		Group       string `json:"group"`
	} `json:"Metadata"`
}

// ListJSONScenes scans the scenes directory and returns discovered JSON scenes
func ListJSONScenes() ([]SceneInfo, error) {
	// Try different possible paths for scenes directory
	possiblePaths := []string{"scenes", "../scenes"}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return ListJSONScenesInDir(path)
		}
	}

	// No scenes directory found, return empty list
	return []SceneInfo{}, nil
}

// ListJSONScenesInDir returns the JSON scenes found directly inside dir
func ListJSONScenesInDir(dir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseJSONMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseJSONMetadata reads the Metadata block of a JSON scene file, falling
// back to values derived from the file name
func ParseJSONMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          "json:" + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        TypeJSON,
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, err
	}

	var meta sceneMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return sceneInfo, fmt.Errorf("invalid scene file: %w", err)
	}

	if meta.Metadata.Name != "" {
		sceneInfo.Name = meta.Metadata.Name
	}
	if meta.Metadata.Group != "" {
		sceneInfo.Group = meta.Metadata.Group
	}
	sceneInfo.Description = meta.Metadata.Description
	sceneInfo.Variant = meta.Metadata.Variant

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, nil
}

// ListScenes returns the ids of the built-in scenes followed by the ids of
// any JSON scenes in the scenes directory
func ListScenes() ([]string, error) {
	ids := BuiltinSceneIDs()

	jsonScenes, err := ListJSONScenes()
	if err != nil {
		return ids, err
	}
	for _, info := range jsonScenes {
		ids = append(ids, info.ID)
	}
	return ids, nil
}

// FindScene looks up a scene by id among the built-in and JSON scenes
func FindScene(id string) (SceneInfo, bool) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.info, true
		}
	}

	jsonScenes, err := ListJSONScenes()
	if err != nil {
		return SceneInfo{}, false
	}
	for _, info := range jsonScenes {
		if info.ID == id {
			return info, true
		}
	}
	return SceneInfo{}, false
}

// ListAllScenes returns both built-in and JSON scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	allScenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		allScenes = append(allScenes, b.info)
	}

	jsonScenes, err := ListJSONScenes()
	if err != nil {
		return response, fmt.Errorf("failed to list JSON scenes: %w", err)
	}
	allScenes = append(allScenes, jsonScenes...)

	return groupScenes(allScenes), nil
}

// groupScenes groups scenes by their Group field, built-in group first and
// the rest alphabetically
func groupScenes(scenes []SceneInfo) ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range scenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtInGroup, exists := groupMap[builtinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtinGroup,
			Scenes: builtInGroup,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
