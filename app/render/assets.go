package render

// pageStyle keeps the page self-contained; no external stylesheet is
// fetched.
const pageStyle = `body{font-family:sans-serif;background:#f0f2f5;margin:0;padding:10px}` +
	`.header{background:white;padding:15px;border-radius:12px;box-shadow:0 4px 12px rgba(0,0,0,0.05);position:sticky;top:10px;z-index:100;margin-bottom:20px}` +
	`.header input{width:100%;padding:10px;box-sizing:border-box;margin-bottom:8px}` +
	`.header select{padding:6px;margin-right:6px}` +
	`.btn{padding:6px 12px;border-radius:8px;border:1px solid #ddd;background:white;cursor:pointer;font-size:0.8rem;margin:2px}` +
	`.btn.active{background:#1a73e8;color:white}` +
	`.toggles{margin-top:10px}` +
	`.article{background:white;padding:20px;margin-bottom:15px;border-radius:10px;border-top:5px solid #1a73e8}` +
	`.badge{font-size:0.7rem;color:#1a73e8;font-weight:bold}` +
	`.badge .dup{color:#d93025}` +
	`.hidden{display:none!important}` +
	`a{text-decoration:none;color:#000;font-weight:800;display:block;font-size:1.2rem;margin-bottom:8px}` +
	`.summary{font-size:0.95rem;color:#444;background:#f8f9fa;padding:10px;border-radius:6px}` +
	`.footer{text-align:center;color:#999;font-size:0.7rem;margin:20px 0}`

// pageScript is the client-side rendition of app/filter.ComputeVisibility.
// Both sides must stay in step: candidate match on source, date and scoped
// substring, then greedy single-pass grouping on token-set Jaccard
// similarity over max cardinality, in render order.
const pageScript = `
const state={q:"",scope:"all",sources:new Set(DATA.sources),date:"all",grouping:true};
function tokens(t){const set=new Set();for(const w of t.toLowerCase().split(/\s+/)){if(w)set.add(w)}return set}
function similarity(a,b){
  const ta=tokens(a),tb=tokens(b);
  if(ta.size===0&&tb.size===0)return 1;
  if(ta.size===0||tb.size===0)return 0;
  let shared=0;
  for(const w of ta){if(tb.has(w))shared++}
  return shared/Math.max(ta.size,tb.size);
}
function matches(it){
  if(!state.sources.has(it.s))return false;
  if(state.date!=="all"&&it.dt!==state.date)return false;
  const q=state.q.toLowerCase();
  if(q==="")return true;
  const inTitle=it.t.toLowerCase().includes(q);
  const inDesc=(it.d||"").toLowerCase().includes(q);
  if(state.scope==="title")return inTitle;
  if(state.scope==="description")return inDesc;
  return inTitle||inDesc;
}
function apply(){
  const visible=new Set(),dup=new Set(),reps=[];
  for(const it of DATA.items){
    if(!matches(it))continue;
    if(!state.grouping){visible.add(it.l);continue}
    let rep=null;
    for(const r of reps){if(similarity(it.t,r.t)>DATA.threshold){rep=r;break}}
    if(rep){dup.add(rep.l);continue}
    reps.push(it);
    visible.add(it.l);
  }
  document.querySelectorAll(".article").forEach(el=>{
    const l=el.getAttribute("data-l");
    el.classList.toggle("hidden",!visible.has(l));
    el.querySelector(".dup").classList.toggle("hidden",!dup.has(l));
  });
}
document.getElementById("q").addEventListener("input",e=>{state.q=e.target.value;apply()});
document.getElementById("scope").addEventListener("change",e=>{state.scope=e.target.value;apply()});
document.getElementById("grouping").addEventListener("click",e=>{
  state.grouping=!state.grouping;
  e.target.classList.toggle("active",state.grouping);
  apply();
});
document.querySelectorAll("#sources .src-b").forEach(b=>b.addEventListener("click",()=>{
  const s=b.getAttribute("data-s");
  if(state.sources.has(s)){state.sources.delete(s)}else{state.sources.add(s)}
  b.classList.toggle("active",state.sources.has(s));
  apply();
}));
document.querySelectorAll("#dates .date-b").forEach(b=>b.addEventListener("click",()=>{
  state.date=b.getAttribute("data-dt");
  document.querySelectorAll("#dates .date-b").forEach(o=>o.classList.toggle("active",o===b));
  apply();
}));
apply();
`
