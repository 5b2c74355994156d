package drawer

import (
	"fmt"
	"html"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-pipesmith/internal/store"
	"github.com/askiada/go-pipesmith/pkg/pipesmith/measure"
)

// DOTDrawer is a drawer that writes the rule graph in the Graphviz DOT language.
type DOTDrawer struct {
	graph       graph.Graph[string, string]
	store       *store.RuleStore
	dotFileName string
	attributes  map[string]string
}

// NewDOTDrawer creates a new DOT drawer writing to dotFileName.
func NewDOTDrawer(dotFileName string) *DOTDrawer {
	st := store.NewRuleStore()

	return &DOTDrawer{
		dotFileName: dotFileName,
		store:       st,
		graph:       graph.NewWithStore(graph.StringHash, graph.Store[string, string](st), graph.Directed()),
		attributes:  make(map[string]string),
	}
}

// AddStep adds a step to the rule graph.
func (d *DOTDrawer) AddStep(label string) error {
	err := d.graph.AddVertex(label, graph.VertexAttribute("shape", "box"))
	if err != nil {
		return errors.Wrapf(err, "unable to add step %s", label)
	}

	return nil
}

// conditionColours maps a condition kind to its edge colour.
var conditionColours = map[string][3]uint8{
	"require_if_label":   {0, 90, 200},
	"skip_if_label":      {200, 30, 30},
	"require_if_present": {20, 140, 60},
}

// AddLink adds an edge for a condition. Several conditions between the same steps share one edge and their kinds
// are listed in its label.
func (d *DOTDrawer) AddLink(targetStep, dependentStep, kind string) error {
	existing, err := d.graph.Edge(targetStep, dependentStep)
	if err == nil {
		label := existing.Properties.Attributes["label"] + `\n` + kind
		err = d.graph.UpdateEdge(targetStep, dependentStep, graph.EdgeAttribute("label", label))
		if err != nil {
			return errors.Wrapf(err, "unable to update edge from %s to %s", targetStep, dependentStep)
		}
		return nil
	}

	rgb, ok := conditionColours[kind]
	if !ok {
		return errors.Errorf("unknown condition kind %q", kind)
	}
	colour, err := colors.RGB(rgb[0], rgb[1], rgb[2]) //nolint
	if err != nil {
		return errors.Wrap(err, "unable to get colour")
	}

	style := "solid"
	if kind == "skip_if_label" {
		style = "dashed"
	}

	err = d.graph.AddEdge(targetStep, dependentStep,
		graph.EdgeAttribute("label", kind),
		graph.EdgeAttribute("color", colour.ToHEX().String()),
		graph.EdgeAttribute("fontcolor", colour.ToHEX().String()),
		graph.EdgeAttribute("style", style),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", targetStep, dependentStep)
	}

	return nil
}

// SetGraphAttribute sets an attribute of the whole graph, such as its label.
func (d *DOTDrawer) SetGraphAttribute(key, value string) {
	d.attributes[key] = value
}

// Draw writes the rule graph to the DOT file.
func (d *DOTDrawer) Draw() (err error) {
	file, err := os.Create(d.dotFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.dotFileName)
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "unable to close file %s", d.dotFileName)
		}
	}()

	err = d.Render(file)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.dotFileName)
	}

	return nil
}

// Render writes the rule graph to wrt.
func (d *DOTDrawer) Render(wrt io.Writer) error {
	options := make([]func(*description), 0, len(d.attributes))
	for key, value := range d.attributes {
		options = append(options, GraphAttribute(key, value))
	}

	return dot(d.graph, wrt, options...)
}

const maxRGB = 220

// AddMeasure shades every step from red to green by the share of accepted combinations it appears in, and writes
// the counts next to it.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	for name, metric := range msr.AllMetrics() {
		label, ok := strings.CutPrefix(name, measure.StepMetricName(""))
		if !ok {
			continue
		}

		rate := metric.AcceptanceRate()
		fill, err := colors.RGB(uint8(maxRGB*(1-rate)), uint8(maxRGB*rate), 90) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		xlabel := fmt.Sprintf("%d/%d accepted", metric.Accepted(), metric.Evaluated())
		err = d.store.UpdateVertex(label,
			graph.VertexAttribute("style", "filled"),
			graph.VertexAttribute("fillcolor", fill.ToHEX().String()),
			graph.VertexAttribute("xlabel", xlabel),
		)
		if err != nil {
			return errors.Wrapf(err, "unable to update step %s", label)
		}
	}

	if total := msr.GetMetric(measure.TotalMetricName); total != nil {
		d.SetGraphAttribute("label", fmt.Sprintf("%d of %d combinations accepted in %s",
			total.Accepted(), total.Evaluated(), msr.GetTotalDuration()))
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{escape $v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{escape .Source}}" {{if .Target}}{{$.EdgeOperator}} "{{escape .Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{escape $v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{escape $v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot[K comparable, T any](g graph.Graph[K, T], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute sets an attribute of the graph statement, such as its label or rankdir.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// generateDOT lists vertices then edges, both sorted, so that the output is stable.
func generateDOT[K comparable, T any](gra graph.Graph[K, T], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices := make([]K, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}
	sortKeys(vertices)

	edges := make([]statement, 0)
	for _, vertex := range vertices {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)
		sourceAttributes := make(map[string]string, len(sourceProperties.Attributes))
		for k, v := range sourceProperties.Attributes {
			sourceAttributes[k] = v
		}

		if xlabel, ok := sourceAttributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`,
				html.EscapeString(fmt.Sprint(vertex)), html.EscapeString(xlabel))

			delete(sourceAttributes, "xlabel")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceAttributes,
			HTMLAttributes:   htmlAttributes,
		})

		targets := make([]K, 0, len(adjacencyMap[vertex]))
		for adjacency := range adjacencyMap[vertex] {
			targets = append(targets, adjacency)
		}
		sortKeys(targets)

		for _, adjacency := range targets {
			edge := adjacencyMap[vertex][adjacency]
			edges = append(edges, statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}
	desc.Statements = append(desc.Statements, edges...)

	return desc, nil
}

func sortKeys[K comparable](keys []K) {
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
}

// escapeDOT escapes the double quotes of a value written inside a quoted DOT string.
func escapeDOT(value any) string {
	return strings.ReplaceAll(fmt.Sprint(value), `"`, `\"`)
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Funcs(template.FuncMap{"escape": escapeDOT}).Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
