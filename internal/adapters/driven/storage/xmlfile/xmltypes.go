package xmlfile

import (
	"encoding/xml"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

// The on-disk schema mirrors the exports this tool has to ingest:
// goals may carry flat fields (including the legacy goal/futureState
// names) or nested item elements, plans always use item elements.

type xmlDocument struct {
	XMLName    xml.Name       `xml:"portfolios"`
	Portfolios []xmlPortfolio `xml:"portfolio"`
}

type xmlPortfolio struct {
	ID       string       `xml:"id,attr"`
	Name     string       `xml:"name,attr"`
	Products []xmlProduct `xml:"product"`
}

type xmlProduct struct {
	ID          string      `xml:"id,attr"`
	Name        string      `xml:"name,attr"`
	Description string      `xml:"description,omitempty"`
	Metrics     []xmlMetric `xml:"metrics>metric"`
	Goals       []xmlGoal   `xml:"goals>goal"`
	Plans       []xmlPlan   `xml:"plans>plan"`
	Notes       []xmlNote   `xml:"notes>note"`
}

type xmlMetric struct {
	Name        string `xml:"name,attr"`
	Value       string `xml:"value,attr"`
	Unit        string `xml:"unit,attr,omitempty"`
	Description string `xml:",chardata"`
}

type xmlGoal struct {
	Month int `xml:"month,attr"`
	Year  int `xml:"year,attr"`

	Description  string `xml:"description,omitempty"`
	CurrentState string `xml:"currentState,omitempty"`
	TargetState  string `xml:"targetState,omitempty"`

	// Legacy element names still seen in older files.
	LegacyGoal        string `xml:"goal,omitempty"`
	LegacyFutureState string `xml:"futureState,omitempty"`

	Items []xmlGoalItem `xml:"item"`
}

type xmlGoalItem struct {
	Description  string `xml:"description,omitempty"`
	CurrentState string `xml:"currentState,omitempty"`
	TargetState  string `xml:"targetState,omitempty"`
}

type xmlPlan struct {
	Month int           `xml:"month,attr"`
	Year  int           `xml:"year,attr"`
	Items []xmlPlanItem `xml:"item"`
}

type xmlPlanItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description,omitempty"`
	Status      string `xml:"status,omitempty"`
	Owner       string `xml:"owner,omitempty"`
}

type xmlNote struct {
	Month   int    `xml:"month,attr"`
	Year    int    `xml:"year,attr"`
	Content string `xml:",chardata"`
}

func toXMLDocument(portfolios []domain.Portfolio) xmlDocument {
	doc := xmlDocument{}
	for _, pf := range portfolios {
		xpf := xmlPortfolio{ID: pf.ID, Name: pf.Name}
		for _, p := range pf.Products {
			xpf.Products = append(xpf.Products, toXMLProduct(p))
		}
		doc.Portfolios = append(doc.Portfolios, xpf)
	}
	return doc
}

func toXMLProduct(p domain.Product) xmlProduct {
	xp := xmlProduct{ID: p.ID, Name: p.Name, Description: p.Description}
	for _, m := range p.Metrics {
		xp.Metrics = append(xp.Metrics, xmlMetric{
			Name:        m.Name,
			Value:       m.Value,
			Unit:        m.Unit,
			Description: m.Description,
		})
	}
	for _, g := range p.Goals {
		xg := xmlGoal{
			Month:             g.Month,
			Year:              g.Year,
			Description:       g.Description,
			CurrentState:      g.CurrentState,
			TargetState:       g.TargetState,
			LegacyGoal:        g.Goal,
			LegacyFutureState: g.FutureState,
		}
		for _, item := range g.Items {
			xg.Items = append(xg.Items, xmlGoalItem(item))
		}
		xp.Goals = append(xp.Goals, xg)
	}
	for _, pl := range p.Plans {
		xpl := xmlPlan{Month: pl.Month, Year: pl.Year}
		for _, item := range pl.Items {
			xpl.Items = append(xpl.Items, xmlPlanItem(item))
		}
		xp.Plans = append(xp.Plans, xpl)
	}
	for _, n := range p.Notes {
		xp.Notes = append(xp.Notes, xmlNote{Month: n.Month, Year: n.Year, Content: n.Content})
	}
	return xp
}

func (d xmlDocument) toDomain() []domain.Portfolio {
	var portfolios []domain.Portfolio
	for _, xpf := range d.Portfolios {
		pf := domain.Portfolio{ID: xpf.ID, Name: xpf.Name}
		for _, xp := range xpf.Products {
			pf.Products = append(pf.Products, xp.toDomain())
		}
		portfolios = append(portfolios, pf)
	}
	return portfolios
}

func (xp xmlProduct) toDomain() domain.Product {
	p := domain.Product{ID: xp.ID, Name: xp.Name, Description: xp.Description}
	for _, m := range xp.Metrics {
		p.Metrics = append(p.Metrics, domain.Metric{
			Name:        m.Name,
			Value:       m.Value,
			Unit:        m.Unit,
			Description: m.Description,
		})
	}
	for _, xg := range xp.Goals {
		g := domain.ReleaseGoal{
			Month:        xg.Month,
			Year:         xg.Year,
			Description:  xg.Description,
			CurrentState: xg.CurrentState,
			TargetState:  xg.TargetState,
			Goal:         xg.LegacyGoal,
			FutureState:  xg.LegacyFutureState,
		}
		for _, item := range xg.Items {
			g.Items = append(g.Items, domain.GoalItem(item))
		}
		p.Goals = append(p.Goals, g)
	}
	for _, xpl := range xp.Plans {
		pl := domain.ReleasePlan{Month: xpl.Month, Year: xpl.Year}
		for _, item := range xpl.Items {
			pl.Items = append(pl.Items, domain.PlanItem(item))
		}
		p.Plans = append(p.Plans, pl)
	}
	for _, n := range xp.Notes {
		p.Notes = append(p.Notes, domain.ReleaseNote{Month: n.Month, Year: n.Year, Content: n.Content})
	}
	return p
}

// clonePortfolios deep-copies the tree so callers cannot mutate the
// store's state through returned slices.
func clonePortfolios(portfolios []domain.Portfolio) []domain.Portfolio {
	if portfolios == nil {
		return nil
	}
	out := make([]domain.Portfolio, len(portfolios))
	for i, pf := range portfolios {
		out[i] = clonePortfolio(pf)
	}
	return out
}

func clonePortfolio(pf domain.Portfolio) domain.Portfolio {
	cp := pf
	if pf.Products != nil {
		cp.Products = make([]domain.Product, len(pf.Products))
		for i, p := range pf.Products {
			cp.Products[i] = cloneProduct(p)
		}
	}
	return cp
}

func cloneProduct(p domain.Product) domain.Product {
	cp := p
	if p.Metrics != nil {
		cp.Metrics = append([]domain.Metric(nil), p.Metrics...)
	}
	if p.Goals != nil {
		cp.Goals = make([]domain.ReleaseGoal, len(p.Goals))
		for i, g := range p.Goals {
			cp.Goals[i] = g
			if g.Items != nil {
				cp.Goals[i].Items = append([]domain.GoalItem(nil), g.Items...)
			}
		}
	}
	if p.Plans != nil {
		cp.Plans = make([]domain.ReleasePlan, len(p.Plans))
		for i, pl := range p.Plans {
			cp.Plans[i] = pl
			if pl.Items != nil {
				cp.Plans[i].Items = append([]domain.PlanItem(nil), pl.Items...)
			}
		}
	}
	if p.Notes != nil {
		cp.Notes = append([]domain.ReleaseNote(nil), p.Notes...)
	}
	return cp
}
