package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Create
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
}

// UnknownSceneError is returned by Create for names that are not registered
type UnknownSceneError struct {
	Name string
}

func (e *UnknownSceneError) Error() string {
	return fmt.Sprintf("unknown scene %q", e.Name)
}

type sceneEntry struct {
	info   SceneInfo
	create func(overrides ...renderer.CameraConfig) *Scene
}

var builtInScenes = map[string]sceneEntry{
	"default": {
		info:   SceneInfo{ID: "default", DisplayName: "Default Scene", Description: "Diffuse, glass and gold spheres on a ground sphere"},
		create: NewDefaultScene,
	},
	"random": {
		info: SceneInfo{ID: "random", DisplayName: "Random Spheres", Description: "21x21 field of random small spheres around three large ones"},
		create: func(overrides ...renderer.CameraConfig) *Scene {
			return NewRandomScene(core.DefaultSeed, overrides...)
		},
	},
	"mirror-cluster": {
		info:   SceneInfo{ID: "mirror-cluster", DisplayName: "Mirror Cluster", Description: "Tightly packed perfect mirrors that exercise the bounce cap"},
		create: NewMirrorClusterScene,
	},
	"sphere-grid": {
		info:   SceneInfo{ID: "sphere-grid", DisplayName: "Sphere Grid", Description: "20x20 grid of rainbow-colored metallic spheres"},
		create: NewSphereGridScene,
	},
	"empty": {
		info:   SceneInfo{ID: "empty", DisplayName: "Empty Sky", Description: "No objects, only the sky gradient"},
		create: NewEmptyScene,
	},
}

// Create builds the named built-in scene. An empty name selects the default scene.
func Create(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	if name == "" {
		name = "default"
	}
	entry, ok := builtInScenes[name]
	if !ok {
		return nil, &UnknownSceneError{Name: name}
	}
	return entry.create(cameraOverrides...), nil
}

// ListScenes returns every built-in scene sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtInScenes))
	for _, entry := range builtInScenes {
		scenes = append(scenes, entry.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}
