// internal/report/html.go
package report

import (
	"bytes"
	"encoding/json"
	"html/template"

	"github.com/mwiater/gemmbench/internal/results"
	"github.com/mwiater/gemmbench/internal/util"
)

type dashboardData struct {
	Title      string
	ReportJSON template.JS
}

// WriteHTML renders the standalone dashboard for one run. The report is
// embedded as a JSON payload so the file needs nothing but a browser.
func WriteHTML(rep results.Report, path string) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return err
	}

	viewModel := dashboardData{
		Title:      "gemmbench: " + rep.Run.Suite,
		ReportJSON: template.JS(payload),
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, viewModel); err != nil {
		return err
	}
	return util.WriteFile(path, buf.Bytes())
}

var dashboardTemplate = template.Must(template.New("run-report").Parse(dashboardTemplateHTML))

const dashboardTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --success: #10B981;
      --warning: #F59E0B;
      --border: #E2E8F0;
    }
    body {
      background-color: var(--light);
      color: var(--text);
    }
    .navbar-dark {
      background-color: var(--primary) !important;
    }
    .card {
      border: 1px solid var(--border);
      background-color: var(--background);
    }
    .table thead th { cursor: pointer; }
    .table thead th {
      background-color: var(--light);
      color: var(--text);
      border-color: var(--border);
    }
    .sort-icon { font-size: 0.8rem; margin-left: 0.25rem; }
    .chart-card {
      background: var(--background);
      border-radius: 16px;
      padding: 1.5rem;
      box-shadow: 0 1px 3px rgba(15, 23, 42, 0.1);
      border: 1px solid var(--border);
    }
    .chart-title {
      font-size: 1.5rem;
      font-weight: 700;
      color: var(--text);
      margin-bottom: 0.25rem;
    }
    .chart-subtitle {
      color: var(--secondary);
      margin-bottom: 1.5rem;
    }
    .chart-canvas {
      position: relative;
      height: 420px;
    }
    tr.row-failed td { background-color: #FEE2E2 !important; }
    td.speedup-gain { color: var(--success); font-weight: 600; }
    td.speedup-loss { color: var(--warning); font-weight: 600; }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark">
    <div class="container-fluid">
      <span class="navbar-brand mb-0 h1">{{ .Title }}</span>
      <span class="text-light">Run: <span id="runMeta">-</span></span>
    </div>
  </nav>
  <main class="container-fluid my-4">
    <div class="row g-3 mb-3" id="summaryCards"></div>

    <section class="mt-4">
      <div class="card shadow-sm chart-card">
        <div class="card-body">
          <div class="chart-title">Speedup over Baseline</div>
          <div class="chart-subtitle">Baseline median / recipe median per job (higher is better).</div>
          <div class="chart-canvas">
            <canvas id="speedupChart" aria-label="Speedup chart" role="img"></canvas>
          </div>
          <div id="speedupEmpty" class="text-muted small mt-2"></div>
        </div>
      </div>
    </section>

    <section class="mt-4">
      <div class="card shadow-sm">
        <div class="card-header bg-white">
          <h5 class="mb-0">Job Results</h5>
        </div>
        <div class="card-body">
          <div class="table-responsive">
            <table class="table table-striped table-hover table-bordered table-sm" id="rowsTable">
              <thead class="table-light">
                <tr>
                  <th class="sortable" data-type="number">#</th>
                  <th class="sortable" data-type="text">Param</th>
                  <th class="sortable" data-type="text">Group</th>
                  <th class="sortable" data-type="text">Shape</th>
                  <th class="sortable" data-type="text">Variant</th>
                  <th class="sortable" data-type="text">Status</th>
                  <th class="sortable" data-type="number">Median (ms)</th>
                  <th class="sortable" data-type="number">Mean (ms)</th>
                  <th class="sortable" data-type="number">Stddev (ms)</th>
                  <th class="sortable" data-type="number">Ratio</th>
                  <th class="sortable" data-type="number">Speedup</th>
                  <th class="sortable" data-type="number">Accuracy &Delta;</th>
                  <th class="sortable" data-type="text">Error</th>
                </tr>
              </thead>
              <tbody></tbody>
            </table>
          </div>
        </div>
      </div>
    </section>
  </main>

  <script src="https://code.jquery.com/jquery-3.7.1.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"></script>
  <script>
    var report = {{ .ReportJSON }};
  </script>
  <script>
    (function($) {
      function formatNumber(value, decimals) {
        if (value === null || value === undefined || isNaN(value)) {
          return '-';
        }
        return Number(value).toFixed(decimals);
      }

      function createNumericCell(value, decimals) {
        var display = formatNumber(value, decimals);
        var $td = $('<td></td>').text(display);
        if (value !== null && value !== undefined && !isNaN(value)) {
          $td.attr('data-value', value);
        }
        return $td;
      }

      function createTextCell(text) {
        return $('<td></td>').text(text || '-');
      }

      function buildSummaryCard(label, value) {
        var col = $('<div class="col-sm-6 col-lg-3"></div>');
        var card = $('<div class="card shadow-sm h-100"></div>');
        var body = $('<div class="card-body"></div>');
        body.append('<p class="text-muted mb-1">' + label + '</p>');
        body.append('<h4 class="card-title">' + value + '</h4>');
        card.append(body);
        col.append(card);
        return col;
      }

      function populateSummary(summary, run) {
        var $container = $('#summaryCards').empty();
        $container.append(buildSummaryCard('Jobs', summary.totalJobs));
        $container.append(buildSummaryCard('Measured', summary.measured));
        $container.append(buildSummaryCard('Failed', summary.failed));
        var best = '-';
        if (summary.bestSpeedup && typeof summary.bestSpeedup.speedup === 'number') {
          best = summary.bestSpeedup.speedup.toFixed(2) + 'x (' + summary.bestSpeedup.variant + ')';
        }
        $container.append(buildSummaryCard('Best Speedup', best));

        var meta = (run.id || '-') + ' &middot; ' + formatNumber(summary.durationSeconds, 1) + 's';
        if (summary.canceled) {
          meta += ' &middot; canceled';
        }
        $('#runMeta').html(meta);
      }

      function populateTable(rows) {
        var $tbody = $('#rowsTable tbody').empty();
        rows.forEach(function(row) {
          var timing = row.timing || null;
          var $row = $('<tr></tr>');
          if (row.status === 'failed') {
            $row.addClass('row-failed');
          }
          $row.append(createNumericCell(row.seq, 0));
          $row.append(createTextCell(row.param));
          $row.append(createTextCell(row.group));
          $row.append(createTextCell(row.shape));
          $row.append(createTextCell(row.variant));
          $row.append(createTextCell(row.status));
          $row.append(createNumericCell(timing ? timing.medianSeconds * 1000 : null, 3));
          $row.append(createNumericCell(timing ? timing.meanSeconds * 1000 : null, 3));
          $row.append(createNumericCell(timing ? timing.stddevSeconds * 1000 : null, 3));
          $row.append(createNumericCell(row.ratioToBaseline, 3));
          var $speedup = createNumericCell(row.speedup, 2);
          if (typeof row.speedup === 'number') {
            $speedup.addClass(row.speedup >= 1 ? 'speedup-gain' : 'speedup-loss');
          }
          $row.append($speedup);
          $row.append(createNumericCell(row.accuracyDelta, 6));
          var errorText = row.errorKind ? row.errorKind + ': ' + (row.errorMessage || '') : '';
          $row.append(createTextCell(errorText));
          $tbody.append($row);
        });
      }

      var sortingAttached = false;

      function attachSorting() {
        if (sortingAttached) {
          return;
        }
        $('#rowsTable thead th.sortable').each(function(index) {
          var direction = 'none';
          $(this).on('click', function() {
            var type = $(this).data('type');
            direction = direction === 'asc' ? 'desc' : 'asc';
            sortTable(index, type, direction);
          });
        });
        sortingAttached = true;
      }

      function sortTable(columnIndex, type, direction) {
        var $tbody = $('#rowsTable tbody');
        var rows = $tbody.find('tr').get();
        rows.sort(function(a, b) {
          var A = $(a).children().eq(columnIndex).text();
          var B = $(b).children().eq(columnIndex).text();
          if (type === 'number') {
            A = parseFloat($(a).children().eq(columnIndex).attr('data-value')) || 0;
            B = parseFloat($(b).children().eq(columnIndex).attr('data-value')) || 0;
          }
          if (A < B) {
            return direction === 'asc' ? -1 : 1;
          }
          if (A > B) {
            return direction === 'asc' ? 1 : -1;
          }
          return 0;
        });
        $.each(rows, function(_, row) {
          $tbody.append(row);
        });
      }

      function buildSpeedupChart(rows) {
        var canvas = document.getElementById('speedupChart');
        if (!canvas) {
          return;
        }
        var labels = [];
        var values = [];
        var colors = [];
        rows.forEach(function(row) {
          if (typeof row.speedup !== 'number') {
            return;
          }
          labels.push(row.id);
          values.push(row.speedup);
          colors.push(row.speedup >= 1 ? '#10B981' : '#F59E0B');
        });
        if (!values.length) {
          $('#speedupEmpty').text('No baseline-relative speedups available for this run.');
          return;
        }
        new Chart(canvas, {
          type: 'bar',
          data: {
            labels: labels,
            datasets: [{
              label: 'Speedup over baseline',
              data: values,
              backgroundColor: colors
            }]
          },
          options: {
            responsive: true,
            maintainAspectRatio: false,
            animation: false,
            scales: {
              x: {
                ticks: { color: '#64748B', autoSkip: false, maxRotation: 70, minRotation: 40 }
              },
              y: {
                title: {
                  display: true,
                  text: 'Speedup (x)',
                  color: '#64748B'
                },
                ticks: { color: '#64748B' }
              }
            },
            plugins: {
              legend: { display: false },
              tooltip: {
                callbacks: {
                  label: function(context) {
                    return formatNumber(context.raw, 2) + 'x';
                  }
                }
              }
            }
          }
        });
      }

      $(function() {
        if (!report) {
          return;
        }
        var rows = report.rows || [];
        populateSummary(report.summary || {}, report.run || {});
        populateTable(rows);
        attachSorting();
        buildSpeedupChart(rows);
      });
    })(jQuery);
  </script>
</body>
</html>
`
