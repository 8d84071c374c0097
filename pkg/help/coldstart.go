package help

const ColdstartYAML = `# finnbil Quick Start

pipeline:
  fetch: "Crawl a Finn.no car search and store the listings"
  analyze: "Score a stored batch against historical new-car prices"
  report: "Turn a scored batch into a Norwegian buyer report"

commands:
  default_search: |
    finnbil fetch

  custom_search: |
    finnbil fetch --urls "https://www.finn.no/mobility/search/car?model=1.813.3074&year_from=2019" --pages 3

  analyze_latest: |
    finnbil analyze

  analyze_saved_file: |
    finnbil analyze --file data/www_finn_no-mobility-search-car-2026-08-31.json

  reload_reference_prices: |
    finnbil analyze --reload-refs

  generate_report: |
    OPENROUTER_API_KEY=sk-... finnbil report --top 5

  report_with_ad_details: |
    finnbil report --details --out data/report.md

  inspect_runs: |
    finnbil db runs
    finnbil db listings <run-id>
    finnbil db top

key_files:
  - "config.yaml (search URL, politeness delays, model prefix)"
  - "rav4.csv (historical new-car price table)"
  - "data/finnbil.db (runs, listings, valuations)"
  - "data/summary-<date>.json (per-run manifest)"

notes:
  - "Runs are tracked in SQLite with UUID run ids"
  - "Omitting a run id means the latest run"
  - "Fetching is sequential with a 2-4s randomized delay per page"
  - "The report command needs OPENROUTER_API_KEY (env or .env)"
`
