package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
	"github.com/milk9111/simcore/ecs/system"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 6
	planeThickness      = 0.02
)

var (
	dynamicColor = toFColor(colornames.Limegreen)
	staticColor  = toFColor(colornames.Slategray)
	triggerColor = toFColor(colornames.Orange)
	contactColor = toFColor(colornames.Red)
	normalColor  = toFColor(colornames.Yellow)
)

// Camera maps world x/y onto the screen. World +y is screen up.
type Camera struct {
	X, Y float64
	Zoom float64
}

// DebugRenderer draws a side view (x/y projection) of every collider. Each
// frame the colliders are mirrored into a chipmunk space and drawn with
// cp.DrawSpace.
type DebugRenderer struct {
	Camera Camera
	// Normals draws each contact normal scaled by its penetration.
	Normals bool

	space  *cp.Space
	styles map[*cp.Shape]cp.FColor
	screen *ebiten.Image
	width  float64
	height float64
}

func NewDebugRenderer() *DebugRenderer {
	return &DebugRenderer{
		Camera:  Camera{Zoom: 40},
		Normals: true,
		styles:  make(map[*cp.Shape]cp.FColor),
	}
}

// Draw renders colliders, sprites of entities with a Model, and the given
// contacts.
func (r *DebugRenderer) Draw(screen *ebiten.Image, w *ecs.World, contacts []system.Collision) {
	if r == nil || screen == nil || w == nil {
		return
	}
	r.screen = screen
	b := screen.Bounds()
	r.width, r.height = float64(b.Dx()), float64(b.Dy())

	r.drawSprites(w)
	r.rebuild(w)
	cp.DrawSpace(r.space, r)

	for _, c := range contacts {
		p := cp.Vector{X: c.Point.X(), Y: c.Point.Y()}
		r.DrawDot(debugDotSize, p, contactColor, nil)
		if r.Normals {
			tip := c.Point.Add(c.Normal.Mul(math.Max(c.Penetration, 0.25)))
			r.drawLine(p, cp.Vector{X: tip.X(), Y: tip.Y()}, normalColor)
		}
	}
}

// DrawText prints text in the top-left corner.
func DrawText(screen *ebiten.Image, text string) {
	if screen == nil || text == "" {
		return
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

func (r *DebugRenderer) rebuild(w *ecs.World) {
	r.space = cp.NewSpace()
	clear(r.styles)

	transforms, err := ecs.Store[component.Transform](w)
	if err != nil {
		return
	}
	for _, e := range transforms.Entities() {
		col, ok := ecs.Get[component.Collider](w, e)
		if !ok {
			continue
		}
		t, _ := transforms.Get(e)
		shape := r.shapeFor(*t, *col)
		if shape == nil {
			continue
		}
		r.space.AddShape(shape)

		style := dynamicColor
		if rb, ok := ecs.Get[component.RigidBody](w, e); !ok || !rb.Dynamic() {
			style = staticColor
		}
		if col.Trigger {
			style = triggerColor
			shape.SetSensor(true)
		}
		r.styles[shape] = style
	}
}

func (r *DebugRenderer) shapeFor(t component.Transform, c component.Collider) *cp.Shape {
	body := r.space.StaticBody
	switch c.Shape {
	case component.ShapeSphere:
		return cp.NewCircle(body, c.Radius*t.MaxScale(), cp.Vector{X: t.Position.X(), Y: t.Position.Y()})
	case component.ShapeBox:
		b := component.ColliderBounds(t, c)
		return cp.NewBox2(body, cp.BB{L: b.Min.X(), B: b.Min.Y(), R: b.Max.X(), T: b.Max.Y()}, 0)
	case component.ShapePlane:
		a, bEnd, ok := planeSegment(t, c, r.viewExtent())
		if !ok {
			return nil
		}
		return cp.NewSegment(body, a, bEnd, planeThickness)
	}
	return nil
}

// viewExtent is a world distance that covers the whole screen.
func (r *DebugRenderer) viewExtent() float64 {
	zoom := r.zoom()
	return (r.width + r.height) / zoom
}

// planeSegment returns the line where the plane cuts the z=const view. Planes
// whose normal is along z have no such line.
func planeSegment(t component.Transform, c component.Collider, extent float64) (cp.Vector, cp.Vector, bool) {
	n := c.Normal
	if n.Len() == 0 {
		n = mgl64.Vec3{0, 1, 0}
	}
	n = n.Normalize()
	n2 := cp.Vector{X: n.X(), Y: n.Y()}
	l := n2.Length()
	if l < 1e-6 {
		return cp.Vector{}, cp.Vector{}, false
	}
	origin := t.Position.Add(n.Mul(c.Offset))
	// the in-view point of the plane closest to origin
	center := cp.Vector{X: origin.X(), Y: origin.Y()}
	dir := cp.Vector{X: -n2.Y / l, Y: n2.X / l}
	return center.Sub(dir.Mult(extent)), center.Add(dir.Mult(extent)), true
}

func (r *DebugRenderer) drawSprites(w *ecs.World) {
	models, err := ecs.Store[component.Model](w)
	if err != nil {
		return
	}
	zoom := r.zoom()
	for _, e := range models.Entities() {
		model, _ := models.Get(e)
		img := Sprite(model.Mesh)
		if img == nil {
			continue
		}
		bounds, ok := ecs.Get[component.Bounds](w, e)
		if !ok {
			continue
		}
		size := img.Bounds()
		if size.Dx() == 0 || size.Dy() == 0 {
			continue
		}
		ext := bounds.Extents()
		x, y := r.toScreen(cp.Vector{X: bounds.Min.X(), Y: bounds.Max.Y()})
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(2*ext.X()*zoom/float64(size.Dx()), 2*ext.Y()*zoom/float64(size.Dy()))
		op.GeoM.Translate(x, y)
		r.screen.DrawImage(img, op)
	}
}

func (r *DebugRenderer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	r.drawCircle(pos, radius, fill)
}

func (r *DebugRenderer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	r.drawLine(a, b, fill)
}

func (r *DebugRenderer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	r.drawLine(a, b, fill)
}

func (r *DebugRenderer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	r.drawPolygon(verts[:count], fill)
}

func (r *DebugRenderer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2
	x, y := r.toScreen(pos)
	c := toNRGBA(fill)
	ebitenutil.DrawLine(r.screen, x-half, y, x+half, y, c)
	ebitenutil.DrawLine(r.screen, x, y-half, x, y+half, c)
}

func (r *DebugRenderer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (r *DebugRenderer) OutlineColor() cp.FColor {
	return dynamicColor
}

func (r *DebugRenderer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if c, ok := r.styles[shape]; ok {
		return c
	}
	return dynamicColor
}

func (r *DebugRenderer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (r *DebugRenderer) CollisionPointColor() cp.FColor {
	return contactColor
}

func (r *DebugRenderer) Data() interface{} {
	return nil
}

func (r *DebugRenderer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := r.toScreen(a)
	x2, y2 := r.toScreen(b)
	ebitenutil.DrawLine(r.screen, x1, y1, x2, y2, toNRGBA(c))
}

func (r *DebugRenderer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		r.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (r *DebugRenderer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	r.drawPolygon(points, c)
}

func (r *DebugRenderer) zoom() float64 {
	if r.Camera.Zoom <= 0 {
		return 1
	}
	return r.Camera.Zoom
}

func (r *DebugRenderer) toScreen(v cp.Vector) (float64, float64) {
	zoom := r.zoom()
	return r.width/2 + (v.X-r.Camera.X)*zoom, r.height/2 - (v.Y-r.Camera.Y)*zoom
}

func toFColor(c color.RGBA) cp.FColor {
	return cp.FColor{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
