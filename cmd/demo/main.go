// Command demo is a minimal host binary for the randpart core: it owns the
// window, the camera, and the GPU draw path — everything §1 of the spec
// calls out as external collaborators — and otherwise just forwards input
// to Core.Tick/SetLayout/TogglePaused and uploads Core.Snapshot() each
// frame. It is intentionally thin; the interesting code lives in the
// package root.
package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mariano-gn/randpart"
	"github.com/mariano-gn/randpart/render"
)

func init() {
	// GLFW and GL calls must all originate from the same OS thread.
	runtime.LockOSThread()
}

var keyToLayout = map[glfw.Key]randpart.Layout{
	glfw.Key1: randpart.RandomCartesianNaive,
	glfw.Key2: randpart.RandomCartesianDiscard,
	glfw.Key3: randpart.RandomSphericalNaive,
	glfw.Key4: randpart.RandomSphericalLatitude,
	glfw.Key5: randpart.RandomCartesianCube,
	glfw.Key6: randpart.DemoDualColorSlice,
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	cfg := randpart.DefaultConfig()
	if *configPath != "" {
		loaded, err := randpart.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("demo: %v", err)
		}
		cfg = loaded
	}

	logger := randpart.NewDefaultLogger("demo", cfg.Debug)

	core, err := randpart.New(cfg.Capacity, randpart.ParseLayout(cfg.Layout), cfg.StopAfterInitialLoad,
		randpart.WithLogger(logger),
		randpart.WithWorkerCount(cfg.WorkerCount),
	)
	if err != nil {
		log.Fatalf("demo: %v", err)
	}
	defer core.Close()

	window := mustInitWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	defer glfw.Terminate()

	program, err := buildPrograms()
	if err != nil {
		log.Fatalf("demo: %v", err)
	}

	vao, vbo := buildBuffers(cfg.Capacity)

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeySpace:
			core.TogglePaused()
		case glfw.KeyH:
			logger.Infof("demo: camera home requested (camera math is out of core scope)")
		default:
			if l, ok := keyToLayout[key]; ok {
				core.SetLayout(l)
			}
		}
	})

	vp := mgl32.Perspective(mgl32.DegToRad(45), float32(cfg.Window.Width)/float32(cfg.Window.Height), 0.1, 10)
	vp = vp.Mul4(mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}))

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(0, 0, 0, 1)

	lastTime := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dtMS := float32(now-lastTime) * 1000
		lastTime = now

		if err := core.Tick(dtMS); err != nil {
			log.Fatalf("demo: fatal tick error: %v", err)
		}

		draw(program, vao, vbo, core, vp)

		window.SwapBuffers()
		glfw.PollEvents()
	}
}

func mustInitWindow(width, height int, title string) *glfw.Window {
	if err := glfw.Init(); err != nil {
		log.Fatalf("demo: glfw init: %v", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		log.Fatalf("demo: create window: %v", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		log.Fatalf("demo: gl init: %v", err)
	}
	return window
}

type programs struct {
	standard uint32
	dual     uint32
}

func buildPrograms() (programs, error) {
	standard, err := render.CompileProgram(render.VertexShaderSource, render.StandardFragmentShaderSource)
	if err != nil {
		return programs{}, err
	}
	dual, err := render.CompileProgram(render.VertexShaderSource, render.DualColorFragmentShaderSource)
	if err != nil {
		return programs{}, err
	}
	return programs{standard: standard, dual: dual}, nil
}

// particleVertex must match the attribute layout the vertex shader declares:
// Position (vec3), Density (float), TimeToDeath (float).
type particleVertex struct {
	pos         [3]float32
	density     float32
	timeToDeath float32
}

const vertexStride = 5 * 4 // 5 float32 fields

func buildBuffers(capacity int) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*vertexStride, nil, gl.DYNAMIC_DRAW)

	// Position, Density, TimeToDeath use the fixed locations 0, 1, 2 that
	// the vertex shader pins; the two fragment variants share that one
	// vertex shader and therefore one attribute layout.
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, vertexStride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 1, gl.FLOAT, false, vertexStride, gl.PtrOffset(4*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return vao, vbo
}

var scratch []particleVertex

func draw(progs programs, vao, vbo uint32, core *randpart.Core, vp mgl32.Mat4) {
	positions, densities, ttds, maxDensity := core.Snapshot()

	if cap(scratch) < len(positions) {
		scratch = make([]particleVertex, len(positions))
	}
	scratch = scratch[:len(positions)]
	for i, p := range positions {
		scratch[i] = particleVertex{
			pos:         [3]float32{p.X(), p.Y(), p.Z()},
			density:     float32(densities[i]),
			timeToDeath: ttds[i],
		}
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(scratch) > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(scratch)*vertexStride, gl.Ptr(scratch))
	}

	program := progs.standard
	dualColorDemo := core.Layout().IsDualColorDemo()
	if dualColorDemo {
		program = progs.dual
	}

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(program)

	vpLoc := gl.GetUniformLocation(program, gl.Str("VP\x00"))
	gl.UniformMatrix4fv(vpLoc, 1, false, &vp[0])

	if !dualColorDemo {
		invMaxLoc := gl.GetUniformLocation(program, gl.Str("InvMaxDensity\x00"))
		invMaxDensity := float32(1)
		if maxDensity > 0 {
			invMaxDensity = 1 / float32(maxDensity)
		}
		gl.Uniform1f(invMaxLoc, invMaxDensity)
	}

	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.POINTS, 0, int32(len(scratch)))
	gl.BindVertexArray(0)
}
