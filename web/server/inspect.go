package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit        bool                   `json:"hit"`
	Point      [3]float64             `json:"point"`
	Normal     [3]float64             `json:"normal"`
	Distance   float64                `json:"distance"`
	Color      string                 `json:"color"` // Shaded color as #rrggbb
	Properties map[string]interface{} `json:"properties"`
}

// InspectResult contains the nearest hit along the ray through a pixel
type InspectResult struct {
	Hit       bool
	Ray       core.Ray
	HitRecord material.HitRecord
}

// inspectPixel casts the un-jittered ray through the center of a pixel
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	camera := sceneObj.GetCamera()
	ray := camera.GenerateRay(renderer.PixelToImagePoint(pixelX, pixelY, width, height), nil)

	hit := material.NewHitRecord()
	root := sceneObj.GetRoot()
	if root == nil || !root.Intersect(ray, camera.TMin(), &hit) {
		return InspectResult{Hit: false, Ray: ray}
	}

	return InspectResult{Hit: true, Ray: ray, HitRecord: hit}
}

// extractMaterialInfo describes the Phong parameters of a material
func extractMaterialInfo(mat *material.Material, hit *material.HitRecord) map[string]interface{} {
	properties := make(map[string]interface{})
	if mat == nil {
		return properties
	}

	diffuse := mat.DiffuseAt(hit)
	properties["diffuse"] = [3]float64{diffuse.X, diffuse.Y, diffuse.Z}
	properties["specular"] = [3]float64{mat.SpecularColor.X, mat.SpecularColor.Y, mat.SpecularColor.Z}
	properties["shininess"] = mat.Shininess
	properties["textured"] = mat.HasTexture()
	if hit.HasTexCoords {
		properties["texCoords"] = [2]float64{hit.TexCoords.X, hit.TexCoords.Y}
	}
	return properties
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x",
		int(math.Round(c.X*255)), int(math.Round(c.Y*255)), int(math.Round(c.Z*255)))
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	// Create request object for parameter parsing
	inspectReq := &RenderRequest{}

	// Parse common scene parameters using shared function
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	// Validate pixel coordinates
	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, _, err := s.createScene(inspectReq, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Perform the inspection using the scene directly
	result := inspectPixel(sceneObj, inspectReq.Width, inspectReq.Height, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, Color: hexColor(sceneObj.GetBackground())})
		return
	}

	hit := result.HitRecord
	point := result.Ray.At(hit.T)
	shaded := renderer.Shade(sceneObj, result.Ray, &hit)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:        true,
		Point:      [3]float64{point.X, point.Y, point.Z},
		Normal:     [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:   hit.T,
		Color:      hexColor(shaded),
		Properties: map[string]interface{}{"material": extractMaterialInfo(hit.Material, &hit)},
	})
}
