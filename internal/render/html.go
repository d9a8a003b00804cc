package render

import (
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/offerlens/backend/internal/domain"
)

var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

type htmlReport struct {
	Title string
	Count int
	Rows  []reportRow
}

// HTML writes a self-contained, client-side sortable report to w.
func HTML(w io.Writer, rows []domain.Row, title string) error {
	data := htmlReport{
		Title: title,
		Count: len(rows),
		Rows:  toReportRows(rows),
	}
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// WriteHTMLFile renders the report into path, replacing any existing file.
func WriteHTMLFile(path string, rows []domain.Row, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := HTML(f, rows, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const reportHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <style>
    :root { --bg: #0b1020; --panel: #101a33; --line: #25345d; --text: #e8edf9; --muted: #9eb0da; --accent: #5ca8ff; }
    * { box-sizing: border-box; }
    body { margin: 0; font-family: "Segoe UI", Arial, sans-serif; background: radial-gradient(circle at top, #14254a 0%, var(--bg) 45%); color: var(--text); }
    .wrap { max-width: 1400px; margin: 28px auto; padding: 0 16px; }
    .card { background: linear-gradient(180deg, #132247 0%, var(--panel) 100%); border: 1px solid var(--line); border-radius: 14px; padding: 18px; }
    h1 { margin: 0 0 6px; font-size: 22px; }
    .meta, .controls, .small { color: var(--muted); }
    .controls { display: flex; gap: 12px; align-items: center; margin: 14px 0 12px; }
    select { background: #0f1b38; color: var(--text); border: 1px solid var(--line); border-radius: 8px; padding: 7px 10px; }
    table { width: 100%; border-collapse: collapse; }
    th, td { padding: 10px 8px; border-bottom: 1px solid #223056; vertical-align: top; }
    th { color: #c9d7f5; text-align: left; position: sticky; top: 0; background: #122042; cursor: pointer; user-select: none; white-space: nowrap; }
    tr:hover td { background: rgba(92, 168, 255, 0.08); }
    .num { text-align: right; white-space: nowrap; }
    a { color: var(--accent); text-decoration: none; }
    a:hover { text-decoration: underline; }
    .small { font-size: 12px; }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="card">
      <h1>{{.Title}}</h1>
      <div class="meta">Rows: {{.Count}} · Click headers to sort</div>
      <div class="controls">
        <label for="sort">Sort:</label>
        <select id="sort">
          <option value="cost:asc">Cost (cheap → expensive)</option>
          <option value="cost:desc">Cost (expensive → cheap)</option>
          <option value="reviews:desc">Seller reviews (high → low)</option>
          <option value="seller:asc">Seller (A → Z)</option>
        </select>
      </div>
      <table id="report">
        <thead>
          <tr>
            <th data-key="idx">#</th>
            <th data-key="cost">Cost</th>
            <th data-key="duration">Pro Length</th>
            <th data-key="seller">Seller</th>
            <th data-key="reviews">Seller Reviews</th>
            <th data-key="goodbad">Good/Bad</th>
            <th data-key="ad">Ad</th>
            <th data-key="link">Link</th>
          </tr>
        </thead>
        <tbody>
{{- range .Rows}}
          <tr data-cost="{{.CostValue}}" data-reviews="{{.Reviews}}" data-seller="{{.SellerKey}}">
            <td class="num">{{.Index}}</td>
            <td class="num">{{.Cost}}</td>
            <td>{{.Duration}}</td>
            <td>{{.Seller}}</td>
            <td class="num">{{.ReviewsFmt}}</td>
            <td class="num">{{.GoodBad}}</td>
            <td><a href="{{.Link}}" target="_blank" rel="noreferrer">{{.Ad}}</a></td>
            <td><a href="{{.Link}}" target="_blank" rel="noreferrer">open</a></td>
          </tr>
{{- end}}
        </tbody>
      </table>
      <p class="small">All links open in a new tab.</p>
    </div>
  </div>
  <script>
    (() => {
      const table = document.getElementById('report');
      const body = table.querySelector('tbody');
      const select = document.getElementById('sort');
      const columns = { idx: 0, cost: 1, duration: 2, seller: 3, reviews: 4, goodbad: 5, ad: 6, link: 7 };
      const text = (row, i) => (row.children[i] ? row.children[i].innerText.toLowerCase() : '');
      const numeric = {
        cost: (row) => Number(row.dataset.cost || 0),
        reviews: (row) => Number(row.dataset.reviews || 0),
        idx: (row) => Number(text(row, 0)),
      };

      function sortRows(key, dir) {
        const sign = dir === 'asc' ? 1 : -1;
        const rows = Array.from(body.querySelectorAll('tr'));
        rows.sort((a, b) => {
          if (numeric[key]) {
            return sign * (numeric[key](a) - numeric[key](b));
          }
          const i = columns[key] || 0;
          return sign * text(a, i).localeCompare(text(b, i));
        });
        rows.forEach((row, i) => {
          row.children[0].innerText = String(i + 1);
          body.appendChild(row);
        });
      }

      select.addEventListener('change', () => {
        const [key, dir] = select.value.split(':');
        sortRows(key, dir);
      });

      let state = { key: 'cost', dir: 'asc' };
      table.querySelectorAll('th').forEach((th) => {
        th.addEventListener('click', () => {
          const key = th.dataset.key;
          const dir = state.key === key && state.dir === 'asc' ? 'desc' : 'asc';
          state = { key, dir };
          sortRows(key, dir);
        });
      });
    })();
  </script>
</body>
</html>
`
